package mail

import (
	"sync"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Outbox 有界邮件发件队列
// 投递为尽力而为：队列满时丢弃并记录日志，发送失败只记录日志，
// 不向调用方传播错误，也不阻塞调用方
type Outbox struct {
	mailer    Mailer
	logger    *zap.SugaredLogger
	ch        chan Message
	workers   *pool.Pool
	closeOnce sync.Once
}

// NewOutbox 创建发件队列并启动工作协程
func NewOutbox(mailer Mailer, logger *zap.SugaredLogger, workers, queueSize int) *Outbox {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 128
	}

	o := &Outbox{
		mailer:  mailer,
		logger:  logger,
		ch:      make(chan Message, queueSize),
		workers: pool.New().WithMaxGoroutines(workers),
	}

	for i := 0; i < workers; i++ {
		o.workers.Go(o.run)
	}
	return o
}

// Enqueue 将邮件加入队列，队列满时立即返回false
func (o *Outbox) Enqueue(msg Message) bool {
	select {
	case o.ch <- msg:
		return true
	default:
		o.logger.Warnf("邮件队列已满，丢弃邮件: subject=%s to=%v", msg.Subject, msg.To)
		return false
	}
}

// Close 关闭队列并等待已入队的邮件发送完毕
func (o *Outbox) Close() {
	o.closeOnce.Do(func() {
		close(o.ch)
		o.workers.Wait()
	})
}

func (o *Outbox) run() {
	for msg := range o.ch {
		if err := o.mailer.Send(msg); err != nil {
			o.logger.Errorf("邮件发送失败: subject=%s to=%v err=%v", msg.Subject, msg.To, err)
		}
	}
}
