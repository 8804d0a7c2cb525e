package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// TelegramService handles sending notifications to Telegram.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		log.Println("[Telegram] Admin chat ID not configured")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// AppointmentNotification contains booking data for the admin chat.
type AppointmentNotification struct {
	ClientName  string
	ClientPhone string
	ServiceName string
	StaffName   string
	ScheduledAt time.Time
	Price       float64
	Notes       string
}

// FormatPrice formats price with currency and thousand separators.
func FormatPrice(amount float64, currency string) string {
	if currency == "" {
		currency = "VND"
	}
	intAmount := int64(amount)
	str := fmt.Sprintf("%d", intAmount)

	var result strings.Builder
	length := len(str)
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return result.String() + " " + currency
}

// NotifyNewAppointment sends a booking notification to the admin chat.
func (s *TelegramService) NotifyNewAppointment(a AppointmentNotification) error {
	if s.adminChatID == "" {
		return nil
	}

	staff := a.StaffName
	if staff == "" {
		staff = "Any available"
	}

	message := fmt.Sprintf(`<b>💆 NEW APPOINTMENT</b>
<b>👤 Client:</b> %s
<b>📞 Phone:</b> %s
<b>✨ Service:</b> %s
<b>🧑‍💼 Staff:</b> %s
<b>🕐 Time:</b> %s
<b>💰 Price:</b> %s
%s
━━━━━━━━━━━━━━━━━━`,
		a.ClientName,
		a.ClientPhone,
		a.ServiceName,
		staff,
		a.ScheduledAt.Format("02 Jan 2006 15:04"),
		FormatPrice(a.Price, ""),
		a.Notes,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}

// NotifyExpiringPromotions sends the daily expiring-promotions digest.
func (s *TelegramService) NotifyExpiringPromotions(codes []string) error {
	if s.adminChatID == "" || len(codes) == 0 {
		return nil
	}

	message := fmt.Sprintf(`<b>⏰ PROMOTIONS EXPIRING WITHIN 7 DAYS</b>
%s
━━━━━━━━━━━━━━━━━━`,
		strings.Join(codes, "\n"))

	return s.SendToAdmin(strings.TrimSpace(message))
}
