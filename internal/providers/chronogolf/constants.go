package chronogolf

const (
	providerName   = "chronogolf"
	defaultBaseURL = "https://www.chronogolf.com"
	defaultHoles   = 18
)
