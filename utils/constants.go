// File: utils/constants.go
package utils

import "time"

// CheckoutCachePrefix is the prefix used for Redis pending-checkout keys.
const CheckoutCachePrefix = "checkout:"

// ReviewAnalysisPrefix is the prefix used for cached AI review analyses.
const ReviewAnalysisPrefix = "ai:review:"

// ReviewAnalysisTTL is the time-to-live for cached AI review analyses.
const ReviewAnalysisTTL = 24 * time.Hour
