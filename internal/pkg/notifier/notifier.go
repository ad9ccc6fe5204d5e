package notifier

import (
	"log"
	"time"

	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/push"
	"github.com/rmfpdlxmtidl/alpaca-salon/pkg/metrics"
)

// Notification 一条待投递的推送
type Notification struct {
	AccountID string
	Title     string
	Body      string
	Extras    map[string]string
	Retry     int // 重试次数
}

// Notifier 通知协作方，投递是 fire-and-forget
type Notifier interface {
	NotifySuccess(accountID, message string)
	NotifyError(accountID string, err error)
	Notify(n Notification)
}

// Pool 异步投递通知的工作池，带重试队列
type Pool struct {
	TaskQueue  chan Notification
	RetryQueue chan Notification
	Push       push.PushService
	WorkerNum  int
	MaxRetry   int
}

func NewPool(p push.PushService, workerNum int, bufferSize int) *Pool {
	return &Pool{
		TaskQueue:  make(chan Notification, bufferSize),
		RetryQueue: make(chan Notification, bufferSize/2),
		Push:       p,
		WorkerNum:  workerNum,
		MaxRetry:   3, // 最多重试3次
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		go p.worker(i)
	}
	// 启动重试处理协程
	go p.retryWorker()
	log.Printf("Notifier pool started with %d workers", p.WorkerNum)
}

func (p *Pool) NotifySuccess(accountID, message string) {
	p.Notify(Notification{AccountID: accountID, Title: "알림", Body: message})
}

func (p *Pool) NotifyError(accountID string, err error) {
	p.Notify(Notification{AccountID: accountID, Title: "오류", Body: err.Error()})
}

// Notify 任务入队，队列满时丢弃并记录
func (p *Pool) Notify(n Notification) {
	select {
	case p.TaskQueue <- n:
	default:
		log.Printf("Notifier queue full, dropping notification for %s", n.AccountID)
		p.logFailed(n, nil)
	}
}

func (p *Pool) worker(id int) {
	for n := range p.TaskQueue {
		if err := p.deliver(n); err != nil {
			log.Printf("[Notifier %d] Failed to deliver to %s: %v", id, n.AccountID, err)

			// 如果未达到最大重试次数，加入重试队列
			if n.Retry < p.MaxRetry {
				n.Retry++
				select {
				case p.RetryQueue <- n:
				default:
					log.Printf("[Notifier %d] Retry queue full, notification dropped", id)
					p.logFailed(n, err)
				}
			} else {
				p.logFailed(n, err)
			}
		}
	}
}

func (p *Pool) retryWorker() {
	for n := range p.RetryQueue {
		// 延迟重试，避免立即重试
		time.Sleep(time.Duration(n.Retry) * time.Second)

		select {
		case p.TaskQueue <- n:
		default:
			log.Printf("[Notifier] Main queue full, notification dropped")
			p.logFailed(n, nil)
		}
	}
}

func (p *Pool) deliver(n Notification) error {
	if p.Push == nil {
		// 推送未配置时静默丢弃，开发环境常态
		metrics.RecordNotification("skipped")
		return nil
	}
	if err := p.Push.PushToAccount(n.AccountID, n.Title, n.Body, n.Extras); err != nil {
		metrics.RecordNotification("error")
		return err
	}
	metrics.RecordNotification("ok")
	return nil
}

func (p *Pool) logFailed(n Notification, err error) {
	metrics.RecordNotification("dropped")
	log.Printf("[DeadLetter] Notification failed permanently: Account=%s, Title=%s, Error=%v",
		n.AccountID, n.Title, err)
}
