package services

import (
	"log"
	"time"

	"github.com/apvcouncil/technocratz-registration/config"
	"github.com/apvcouncil/technocratz-registration/services/archive"
	"github.com/apvcouncil/technocratz-registration/storage"
	"github.com/apvcouncil/technocratz-registration/utils/notify"
)

// NewReceiptServiceFromConfig builds the receipt pipeline from environment
// configuration. The Spaces archive is attached only when the DO_SPACES_*
// variables are set; a misconfigured archive degrades to local-only receipts.
func NewReceiptServiceFromConfig(env *config.EnviornmentVariable) *ReceiptService {
	var archiver *archive.SpacesClient
	if env.DO_SPACES_KEY != "" && env.DO_SPACES_BUCKET != "" {
		client, err := archive.NewSpacesClient(archive.SpacesConfig{
			AccessKey: env.DO_SPACES_KEY,
			SecretKey: env.DO_SPACES_SECRET,
			Bucket:    env.DO_SPACES_BUCKET,
			Region:    env.DO_SPACES_REGION,
			Endpoint:  env.DO_SPACES_ENDPOINT,
		})
		if err != nil {
			log.Printf("[Receipt] Spaces archive disabled: %v", err)
		} else {
			archiver = client
		}
	}
	return NewReceiptService(env.RECEIPT_DIR, archiver)
}

// NewCheckoutServiceFromConfig wires the full checkout stack (order client,
// submission pipeline, receipts, journal) from environment configuration.
func NewCheckoutServiceFromConfig(
	env *config.EnviornmentVariable,
	gateway CheckoutGateway,
	journal *storage.Journal,
	notifier notify.Notifier,
) *CheckoutService {
	httpTimeout := time.Duration(env.HTTP_TIMEOUT_SECONDS) * time.Second
	svc := NewCheckoutService(
		gateway,
		NewOrderClient(env.ORDER_API_URL, httpTimeout),
		NewSubmissionService(env.SUBMISSION_API_URL, httpTimeout),
		NewReceiptServiceFromConfig(env),
		journal,
		notifier,
		env.RAZORPAY_KEY_ID,
	)
	svc.WidgetTimeout = time.Duration(env.CHECKOUT_TIMEOUT_SECONDS) * time.Second
	return svc
}
