package deliver

import (
	"fmt"
	"strings"

	"memberdoc/internal"
	"memberdoc/internal/config"
	"memberdoc/internal/deliver/gmail"
	"memberdoc/internal/deliver/smtp"
)

type Sender interface {
	Send(req internal.DeliveryRequest) error
}

func New(cfg config.Config) (Sender, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.DeliverProvider)) {
	case "smtp":
		return smtp.NewSender(cfg)
	case "gmail":
		return gmail.NewSender(cfg)
	default:
		return nil, fmt.Errorf("unknown delivery provider: %s", cfg.DeliverProvider)
	}
}

// Subject and body for the standard delivery mail. Thai first, the reader is
// the applicant.
func DefaultSubject(filename string) string {
	return fmt.Sprintf("เอกสารใบสมัครสมาชิก ส.อ.ท. (%s)", filename)
}

func DefaultBody() string {
	return "เรียนผู้สมัครสมาชิก\r\n\r\n" +
		"ระบบได้จัดทำเอกสารสรุปใบสมัครสมาชิกของท่านตามไฟล์แนบ\r\n" +
		"กรุณาตรวจสอบความถูกต้องของข้อมูล\r\n\r\n" +
		"สภาอุตสาหกรรมแห่งประเทศไทย"
}
