// Command loadgen fires concurrent order creations at a running server and
// reports the success/failure split. Point it at a deployment with product
// validation disabled, or seed the product ids below in the catalog first.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

type orderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type createOrderRequest struct {
	Items []orderItem `json:"items"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "order service base URL")
	totalRequests := flag.Int("n", 50, "number of orders to create")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	// Smoke check before spawning the load
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		log.Fatalf("service not reachable: %v", err)
	}
	resp.Body.Close()

	var successCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *totalRequests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			body, _ := json.Marshal(createOrderRequest{
				Items: []orderItem{
					{ProductID: "load-test-product-a", Quantity: 1 + n%3, Price: 9.99},
					{ProductID: "load-test-product-b", Quantity: 1, Price: 4.50},
				},
			})

			resp, err := client.Post(*baseURL+"/api/orders", "application/json", bytes.NewReader(body))
			if err != nil {
				failCount.Add(1)
				return
			}
			resp.Body.Close()

			if resp.StatusCode == http.StatusCreated {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== LOAD TEST RESULTS ==========")
	fmt.Printf("Total Requests:   %d\n", *totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Printf("Throughput:       %.1f orders/sec\n", float64(success)/elapsed.Seconds())
	fmt.Println("=======================================")

	if fail > 0 {
		fmt.Printf("WARN: %d requests failed\n", fail)
	}
}
