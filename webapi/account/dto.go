package account

// SendInput is the send-money form. Amount is parsed by the handler so a
// malformed value is reported as an invalid amount.
type SendInput struct {
	Recipient     string `form:"recipient" validate:"required_without=AccountNumber,max=254"`
	AccountNumber string `form:"account_number" validate:"max=34"`
	RoutingNumber string `form:"routing_number" validate:"max=34"`
	Amount        string `form:"amount"`
	Purpose       string `form:"purpose" validate:"max=200"`
}
