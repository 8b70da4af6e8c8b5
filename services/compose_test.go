package services

import (
	"testing"
	"time"

	"github.com/apvcouncil/technocratz-registration/config"
	"github.com/apvcouncil/technocratz-registration/storage"
)

func testEnv() *config.EnviornmentVariable {
	return &config.EnviornmentVariable{
		ORDER_API_URL:            "http://orders.test/create",
		SUBMISSION_API_URL:       "http://submissions.test/submit",
		RAZORPAY_KEY_ID:          "rzp_test_1DP5mmOlF5G1ag",
		RECEIPT_DIR:              "receipts",
		HTTP_TIMEOUT_SECONDS:     5,
		CHECKOUT_TIMEOUT_SECONDS: 120,
	}
}

func TestNewReceiptServiceFromConfigLocalOnly(t *testing.T) {
	svc := NewReceiptServiceFromConfig(testEnv())
	if svc == nil {
		t.Fatal("got nil service")
	}
	if svc.archiver != nil {
		t.Error("archiver must stay off without Spaces credentials")
	}
	if svc.dir != "receipts" {
		t.Errorf("dir = %q", svc.dir)
	}
}

func TestNewReceiptServiceFromConfigWithSpaces(t *testing.T) {
	env := testEnv()
	env.DO_SPACES_KEY = "key"
	env.DO_SPACES_SECRET = "secret"
	env.DO_SPACES_BUCKET = "receipts-bucket"
	env.DO_SPACES_REGION = "blr1"
	env.DO_SPACES_ENDPOINT = "https://blr1.digitaloceanspaces.com"

	svc := NewReceiptServiceFromConfig(env)
	if svc.archiver == nil {
		t.Fatal("archiver should be configured from DO_SPACES_* variables")
	}
}

func TestNewCheckoutServiceFromConfig(t *testing.T) {
	env := testEnv()
	journal := storage.NewJournal(storage.NewMemoryStore())
	svc := NewCheckoutServiceFromConfig(env, &fakeGateway{}, journal, nil)

	if svc.orders == nil || svc.orders.BaseURL != env.ORDER_API_URL {
		t.Errorf("order client: %+v", svc.orders)
	}
	if svc.submissions == nil || svc.submissions.BaseURL != env.SUBMISSION_API_URL {
		t.Errorf("submission service: %+v", svc.submissions)
	}
	if svc.receipts == nil {
		t.Error("receipt service must be wired")
	}
	if svc.razorpayKey != env.RAZORPAY_KEY_ID {
		t.Errorf("razorpay key = %q", svc.razorpayKey)
	}
	if svc.WidgetTimeout != 120*time.Second {
		t.Errorf("widget timeout = %v", svc.WidgetTimeout)
	}
}
