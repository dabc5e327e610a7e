package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/lakshya189/sonicart-api/initializers"
	"github.com/lakshya189/sonicart-api/models"
	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"
	"gorm.io/gorm"
)

const minPaymentAmount = 0.50

const maxWebhookBodyBytes = int64(65536)

func stripeConfigured() bool {
	return os.Getenv("STRIPE_SECRET_KEY") != ""
}

func paypalConfigured() bool {
	return os.Getenv("PAYPAL_CLIENT_ID") != "" && os.Getenv("PAYPAL_CLIENT_SECRET") != ""
}

func fetchPaymentIntent(intentID string) (*stripe.PaymentIntent, error) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	return paymentintent.Get(intentID, nil)
}

// CreatePaymentIntent opens a card payment for the caller. The intent is
// tagged with the caller's id so confirmation can check ownership.
func CreatePaymentIntent(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var intentData struct {
		Amount      float64 `json:"amount" binding:"required,gt=0"`
		OrderNumber string  `json:"orderNumber"`
	}
	if err := ctx.ShouldBindJSON(&intentData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	if intentData.Amount < minPaymentAmount {
		sendErrorResponse(ctx, http.StatusBadRequest,
			fmt.Sprintf("amount must be at least $%.2f", minPaymentAmount))
		return
	}

	if !stripeConfigured() {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Card payments are not configured")
		return
	}
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(intentData.Amount*100 + 0.5)),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("user_id", strconv.FormatUint(uint64(userID), 10))
	if intentData.OrderNumber != "" {
		params.AddMetadata("order_number", intentData.OrderNumber)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create payment intent", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"paymentIntentId": intent.ID,
		"clientSecret":    intent.ClientSecret,
	})
}

// ConfirmPayment reports an intent's status, but only to the user it was
// created for.
func ConfirmPayment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var confirmData struct {
		PaymentIntentID string `json:"paymentIntentId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&confirmData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !stripeConfigured() {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Card payments are not configured")
		return
	}

	intent, err := fetchPaymentIntent(confirmData.PaymentIntentID)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch payment intent", err)
		return
	}

	if intent.Metadata["user_id"] != strconv.FormatUint(uint64(userID), 10) {
		sendErrorResponse(ctx, http.StatusForbidden, "payment intent does not belong to this user")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"paymentIntentId": intent.ID,
		"status":          intent.Status,
	})
}

// HandleWebhook verifies the gateway signature before trusting anything in
// the payload. Recognized events are logged and acknowledged; order payment
// status is not reconciled from here.
func HandleWebhook(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxWebhookBodyBytes)
	payload, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to read request body")
		return
	}

	event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), os.Getenv("STRIPE_WEBHOOK_SECRET"))
	if err != nil {
		log.Println("Webhook signature verification failed:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid webhook signature")
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Malformed event payload")
			return
		}
		log.Printf("Payment intent succeeded: %s (user %s)", intent.ID, intent.Metadata["user_id"])
	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Malformed event payload")
			return
		}
		log.Printf("Payment intent failed: %s", intent.ID)
	case "charge.refunded":
		log.Printf("Charge refunded event received: %s", event.ID)
	default:
		log.Println("Unhandled webhook event type:", event.Type)
	}

	ctx.JSON(http.StatusOK, gin.H{"received": true})
}

// GetPaymentMethods tells the frontend which payment methods are usable.
func GetPaymentMethods(ctx *gin.Context) {
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"methods": []gin.H{
			{"id": models.PaymentMethodCard, "label": "Credit / Debit Card", "enabled": true},
			{"id": models.PaymentMethodPayPal, "label": "PayPal", "enabled": paypalConfigured()},
			{"id": models.PaymentMethodCOD, "label": "Cash on Delivery", "enabled": true},
		},
	})
}

func paypalBaseURL() string {
	if base := os.Getenv("PAYPAL_BASE_URL"); base != "" {
		return base
	}
	return "https://api-m.sandbox.paypal.com"
}

func getPayPalAccessToken() (string, error) {
	clientID := os.Getenv("PAYPAL_CLIENT_ID")
	clientSecret := os.Getenv("PAYPAL_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return "", errors.New("paypal credentials are not set")
	}

	client := resty.New()
	resp, err := client.R().
		SetBasicAuth(clientID, clientSecret).
		SetHeader("Accept", "application/json").
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		Post(paypalBaseURL() + "/v1/oauth2/token")
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("paypal token request failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(resp.Body(), &tokenResp); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", errors.New("access token not found in response")
	}
	return tokenResp.AccessToken, nil
}

// CreatePayPalOrder opens a PayPal order for one of the caller's unpaid
// PayPal orders and stores the gateway id on the order row.
func CreatePayPalOrder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var paypalData struct {
		OrderID uint `json:"orderId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&paypalData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	var order models.Order
	if err := initializers.DB.
		Where("id = ? AND user_id = ?", paypalData.OrderID, userID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch order", err)
		}
		return
	}
	if order.PaymentMethod != models.PaymentMethodPayPal {
		sendErrorResponse(ctx, http.StatusBadRequest, "order is not a PayPal order")
		return
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		sendErrorResponse(ctx, http.StatusBadRequest, "order is already paid")
		return
	}

	token, err := getPayPalAccessToken()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Payment authentication failed", err)
		return
	}

	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{
				"reference_id": order.OrderNumber,
				"amount": map[string]any{
					"currency_code": "USD",
					"value":         fmt.Sprintf("%.2f", order.Total),
				},
			},
		},
	}

	resp, err := resty.New().R().
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(paypalBaseURL() + "/v2/checkout/orders")
	if err != nil || resp.StatusCode() >= 300 {
		log.Printf("PayPal create order error: %v, response: %s", err, resp.Body())
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to initiate PayPal payment")
		return
	}

	var paypalResp struct {
		ID    string `json:"id"`
		Links []struct {
			Href string `json:"href"`
			Rel  string `json:"rel"`
		} `json:"links"`
	}
	if err := json.Unmarshal(resp.Body(), &paypalResp); err != nil || paypalResp.ID == "" {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Invalid response from PayPal")
		return
	}

	if err := initializers.DB.Model(&order).Update("pay_pal_order_id", paypalResp.ID).Error; err != nil {
		log.Printf("Order %d created on PayPal, but id not saved: %s", order.ID, paypalResp.ID)
	}

	approveURL := ""
	for _, link := range paypalResp.Links {
		if link.Rel == "approve" {
			approveURL = link.Href
		}
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"paypalOrderId": paypalResp.ID,
		"approveUrl":    approveURL,
	})
}

// CapturePayPalOrder captures an approved PayPal order and marks the local
// order paid on completion.
func CapturePayPalOrder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var captureData struct {
		OrderID uint `json:"orderId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&captureData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	var order models.Order
	if err := initializers.DB.
		Where("id = ? AND user_id = ?", captureData.OrderID, userID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch order", err)
		}
		return
	}
	if order.PayPalOrderID == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "order has no PayPal payment to capture")
		return
	}

	token, err := getPayPalAccessToken()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Payment authentication failed", err)
		return
	}

	resp, err := resty.New().R().
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		Post(paypalBaseURL() + "/v2/checkout/orders/" + order.PayPalOrderID + "/capture")
	if err != nil || resp.StatusCode() >= 300 {
		log.Printf("PayPal capture error: %v, response: %s", err, resp.Body())
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to capture PayPal payment")
		return
	}

	var captureResp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body(), &captureResp); err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Invalid response from PayPal")
		return
	}

	if captureResp.Status == "COMPLETED" {
		if err := initializers.DB.Model(&order).Update("payment_status", models.PaymentStatusPaid).Error; err != nil {
			respondWithError(ctx, http.StatusInternalServerError, "Payment captured but order not updated", err)
			return
		}
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"status": captureResp.Status})
}
