package miclub

const (
	providerName = "miclub"
	// rowDelimiter marks the start of each tee row in the timesheet markup.
	rowDelimiter = "row-time"
)
