package notification

type PushItem struct {
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Tokens     []string          `json:"tokens"`
	BadgeCount *int              `json:"badge_count,omitempty"`
	ExtraArgs  map[string]string `json:"extra_args,omitempty"`
}

func (i *PushItem) Channel() Channel { return ChannelPush }

func (i *PushItem) Validate() ValidationErrors {
	errs := ValidationErrors{}

	if i.Title == "" {
		errs.add("title", "title is required")
	}
	if i.Content == "" {
		errs.add("content", "content is required")
	}
	if len(i.Tokens) == 0 {
		errs.add("tokens", "at least one device token is required")
	}
	for _, token := range i.Tokens {
		if token == "" {
			errs.add("tokens", "device tokens must not be blank")
		}
	}

	return errs
}
