package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Message 一封待发送的邮件
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Mailer 邮件发送接口
type Mailer interface {
	Send(msg Message) error
}

// SMTPConfig SMTP服务器配置
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer 基于net/smtp的邮件发送实现
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer 创建SMTP邮件发送器
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send 发送邮件
func (m *SMTPMailer) Send(msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("收件人为空")
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	var b strings.Builder
	b.WriteString("From: " + m.cfg.From + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ",") + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	return smtp.SendMail(addr, auth, m.cfg.From, msg.To, []byte(b.String()))
}
