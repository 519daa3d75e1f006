package model

// PayPal webhook payload shapes. Only the fields the reconciler needs are
// mapped; everything else in the payload is ignored.

type PaypalPayer struct {
	PayerID string `json:"payer_id"`
	Email   string `json:"email_address"`
}

type PaypalAmount struct {
	Currency string `json:"currency_code"`
	Value    string `json:"value"`
}

type PaypalRelatedIDs struct {
	OrderID string `json:"order_id"`
}

type PaypalSupplementaryData struct {
	RelatedIDs PaypalRelatedIDs `json:"related_ids"`
}

type PaypalBillingInfo struct {
	LastPayment struct {
		Amount PaypalAmount `json:"amount"`
	} `json:"last_payment"`
}

type PaypalResource struct {
	ID                string                  `json:"id"`
	Status            string                  `json:"status"`
	Amount            PaypalAmount            `json:"amount"`
	Payer             PaypalPayer             `json:"payer"`
	SupplementaryData PaypalSupplementaryData `json:"supplementary_data"`

	// subscription events
	PlanID      string            `json:"plan_id"`
	BillingInfo PaypalBillingInfo `json:"billing_info"`
}

type PaypalWebhookEvent struct {
	ID         string         `json:"id"`
	EventType  string         `json:"event_type"`
	CreateTime string         `json:"create_time"`
	Resource   PaypalResource `json:"resource"`
}
