package quick18

const (
	providerName = "quick18"
	// lookahead bounds how far past a time token the player phrase and price may sit.
	lookahead = 600
)
