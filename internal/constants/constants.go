package constants

const (
	// Search criteria constants
	MinAge    = 18
	MaxAge    = 100
	SexFemale = 1
	SexMale   = 2

	// Paging constants
	MaxPageSize        = 1000
	DefaultSearchCount = 100

	// Rate limiting constants
	DefaultSearchRPS = 3
	SearchBurst      = 3

	// Presentation constants
	MaxCityChoices      = 5
	MaxPhotoAttachments = 3

	// Network constants
	DefaultTimeout          = 30
	DefaultRetryCount       = 3
	DefaultRetryWaitTime    = 5
	DefaultRetryMaxWaitTime = 20

	// Long poll constants
	LongPollWait     = 25 // seconds
	PollFailureDelay = 5  // seconds

	// API constants
	DefaultAPIVersion = "5.199"

	// State cache constants
	DefaultStateTTL      = 30 // minutes
	StateCleanupInterval = 10 // minutes

	// Formatting constants
	TimestampFormat = "2006-01-02 15:04:05"
	ProfileURLBase  = "https://vk.com/id"
)
