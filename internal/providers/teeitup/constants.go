package teeitup

const (
	providerName   = "teeitup"
	defaultBaseURL = "https://phx-api-be-east-1b.kenna.io"
	bookingHost    = ".book.teeitup.com"
)
