package entity

// PlatformConfig is the marketplace operator's fee terms.
type PlatformConfig struct {
	Owner        Address `json:"owner"`
	Fee          Wei     `json:"fee"`
	FeeRecipient Address `json:"feeRecipient"`
}
