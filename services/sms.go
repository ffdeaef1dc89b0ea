package services

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const smsAPIURL = "https://api-v2.thaibulksms.com/sms"

// SMSSender delivers a text message to a phone number. The auth flow only
// depends on this interface; the provider client below is swapped out for a
// recorder in tests.
type SMSSender interface {
	Send(phone, message string) error
}

// SMSService talks to the ThaiBulkSMS v2 API. When no credentials are
// configured it logs the message instead, which is how local development and
// CI run.
type SMSService struct {
	client *http.Client
}

func NewSMSService() *SMSService {
	return &SMSService{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SMSService) Send(phone, message string) error {
	apiKey := os.Getenv("SMS_API_KEY")
	apiSecret := os.Getenv("SMS_API_SECRET")
	sender := os.Getenv("SMS_SENDER")
	if sender == "" {
		sender = "DEMO"
	}

	if apiKey == "" || apiSecret == "" {
		log.Printf("[SMS MOCK] To: %s, Message: %s", phone, message)
		return nil
	}

	form := url.Values{
		"api_key":    {apiKey},
		"api_secret": {apiSecret},
		"msisdn":     {FormatPhoneForSMS(phone)},
		"sender":     {sender},
		"message":    {message},
	}

	resp, err := s.client.Post(smsAPIURL, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms request failed: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
		Status  string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("sms response decode failed: %w", err)
	}

	if body.Success || body.Code == "000" || body.Code == "200" || body.Status == "success" {
		return nil
	}
	return fmt.Errorf("sms provider rejected message: code=%s status=%s", body.Code, body.Status)
}
