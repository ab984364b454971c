package notification

// Channel is a notification medium with its own payload schema and provider set.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

// ProviderType identifies a concrete delivery service within a channel.
type ProviderType string

const (
	ProviderSMTP     ProviderType = "smtp"
	ProviderSendGrid ProviderType = "sendgrid"
	ProviderTwilio   ProviderType = "twilio"
	ProviderFirebase ProviderType = "firebase"
)

var providersByChannel = map[Channel][]ProviderType{
	ChannelEmail: {ProviderSMTP, ProviderSendGrid},
	ChannelSMS:   {ProviderTwilio},
	ChannelPush:  {ProviderFirebase},
}

func KnownChannel(ch Channel) bool {
	_, ok := providersByChannel[ch]
	return ok
}

// ProvidersFor returns the fixed provider enumeration for a channel.
func ProvidersFor(ch Channel) []ProviderType {
	return providersByChannel[ch]
}

func ValidProvider(ch Channel, p ProviderType) bool {
	for _, known := range providersByChannel[ch] {
		if known == p {
			return true
		}
	}
	return false
}
