package services

// FToC converts a Fahrenheit temperature to Celsius. No rounding is applied
// here; rounding to two decimals happens at CSV serialization time only.
func FToC(f float64) float64 {
	return (f - 32) * 5 / 9
}
