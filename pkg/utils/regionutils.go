package utils

// SupportedRegions lists the AWS regions the estimator accepts, in display
// order. Vantage price-point identifiers are derived from these codes.
var SupportedRegions = []string{
	"us-east-1",
	"us-east-2",
	"us-west-1",
	"us-west-2",
	"eu-west-1",
	"eu-central-1",
	"ap-southeast-1",
	"ap-northeast-1",
}

// IsValidRegion checks if a region is in the supported set
func IsValidRegion(region string) bool {
	for _, r := range SupportedRegions {
		if r == region {
			return true
		}
	}
	return false
}

// GetDefaultRegion returns the default AWS region
func GetDefaultRegion() string {
	return "us-east-1"
}
