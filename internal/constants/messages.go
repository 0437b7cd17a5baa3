package constants

const (
	// GenericFailureMessage is the only failure text a buyer ever sees.
	GenericFailureMessage = "An error has occurred when requesting the transaction. Please try again or contact support."

	PendingReasonAwaitingPayment = "User has not completed payment yet"
	PendingReasonExpired         = "Expired transaction"
	PendingReasonPaid            = "Received callback"

	PendingPaymentSubject = "Your payment is waiting"
	PendingPaymentBody    = "You have a pending payment for %s. Complete it here: %s"
)

const (
	CheckoutOutcomeCreated = "created"
	CheckoutOutcomeResumed = "resumed"
	CheckoutOutcomeRenewed = "renewed"
	CheckoutOutcomeFailed  = "failed"

	ReturnOutcomeHostedPage = "hosted_page"
	ReturnOutcomeCheckout   = "checkout"
)
