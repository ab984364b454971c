package notification

import "regexp"

// E.164: leading plus, up to 15 digits, no leading zero.
var phonePattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

type SMSItem struct {
	SendTo  []string `json:"send_to"`
	Message string   `json:"message"`
}

func (i *SMSItem) Channel() Channel { return ChannelSMS }

func (i *SMSItem) Validate() ValidationErrors {
	errs := ValidationErrors{}

	if i.Message == "" {
		errs.add("message", "message is required")
	}
	if len(i.SendTo) == 0 {
		errs.add("send_to", "at least one phone number is required")
	}
	for _, number := range i.SendTo {
		if !phonePattern.MatchString(number) {
			errs.add("send_to", "invalid phone number: "+number)
		}
	}

	return errs
}
