package enums

import "fmt"

// Channel identifies a publication destination with its own rule table.
type Channel string

const (
	ChannelGoogleShopping Channel = "google_shopping"
	ChannelStorefront     Channel = "storefront"
	ChannelMetaCatalog    Channel = "meta_catalog"
	ChannelAmazon         Channel = "amazon"
)

var validChannels = []Channel{
	ChannelGoogleShopping,
	ChannelStorefront,
	ChannelMetaCatalog,
	ChannelAmazon,
}

// Channels returns all supported channels in their canonical order.
func Channels() []Channel {
	out := make([]Channel, len(validChannels))
	copy(out, validChannels)
	return out
}

// String implements fmt.Stringer.
func (c Channel) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Channel.
func (c Channel) IsValid() bool {
	for _, candidate := range validChannels {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChannel converts raw input into a Channel.
func ParseChannel(value string) (Channel, error) {
	for _, candidate := range validChannels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid channel %q", value)
}
