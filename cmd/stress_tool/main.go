package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// Config
const (
	BaseURL       = "http://localhost:8080"
	TotalRequests = 10000 // 总请求数
	Concurrency   = 200   // 并发协程数
)

var httpClient *http.Client

func init() {
	// 优化 HTTP Client 配置
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxIdleConnsPerHost = 2000
	t.MaxConnsPerHost = 2000
	httpClient = &http.Client{
		Transport: t,
		Timeout:   10 * time.Second,
	}
}

func main() {
	// 1. 取一页帖子 ID，详情请求从中随机挑选
	postIDs := fetchPostIDs()
	fmt.Printf("开始压测：%d 个请求，%d 并发，候选帖子 %d 个...\n", TotalRequests, Concurrency, len(postIDs))
	time.Sleep(1 * time.Second)

	// 2. 并发读压测：首页和帖子详情 1:1 混合
	var wg sync.WaitGroup
	successCount := 0
	failCount := 0
	var mu sync.Mutex

	jobs := make(chan int, Concurrency)
	start := time.Now()

	for w := 0; w < Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				var ok bool
				if i%2 == 0 || len(postIDs) == 0 {
					ok = getFeed(i)
				} else {
					ok = getPost(postIDs[rand.Intn(len(postIDs))])
				}
				mu.Lock()
				if ok {
					successCount++
				} else {
					failCount++
				}
				mu.Unlock()
			}
		}()
	}

	for i := 1; i <= TotalRequests; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	duration := time.Since(start)
	qps := float64(TotalRequests) / duration.Seconds()

	fmt.Println("--------------------------------------------------")
	fmt.Printf("压测结束，耗时: %v\n", duration)
	fmt.Printf("总请求数: %d\n", TotalRequests)
	fmt.Printf("QPS: %.2f\n", qps)
	fmt.Printf("成功: %d\n", successCount)
	fmt.Printf("失败: %d\n", failCount)
	fmt.Println("--------------------------------------------------")
}

func fetchPostIDs() []string {
	resp, err := httpClient.Get(fmt.Sprintf("%s/posts?page=1&limit=50", BaseURL))
	if err != nil {
		fmt.Printf("获取帖子列表失败: %v\n", err)
		return nil
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var result struct {
		Data struct {
			List []struct {
				ID string `json:"id"`
			} `json:"list"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		fmt.Printf("解析响应失败: %v\n", err)
		return nil
	}

	ids := make([]string, 0, len(result.Data.List))
	for _, p := range result.Data.List {
		ids = append(ids, p.ID)
	}
	return ids
}

func getFeed(i int) bool {
	// 翻前 10 页，命中 feed 缓存和穿透都覆盖到
	url := fmt.Sprintf("%s/posts?page=%d&limit=10", BaseURL, i%10+1)
	return doGet(url)
}

func getPost(id string) bool {
	return doGet(fmt.Sprintf("%s/posts/%s", BaseURL, id))
}

func doGet(url string) bool {
	resp, err := httpClient.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return false
	}
	if resp.StatusCode != 200 {
		return false
	}

	// 检查业务状态码
	var result struct {
		Code int `json:"code"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return false
	}
	return result.Code == 0
}
