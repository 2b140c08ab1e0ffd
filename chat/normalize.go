package chat

// Normalize reshapes a caller-supplied message list into the strict form the
// provider expects. System-role content is split out into its own ordered
// list (it travels on the provider-level instruction channel, never in the
// turn sequence), missing roles default to user, and consecutive user turns
// are merged into a single entry so the provider's alternation expectations
// stay satisfiable.
//
// The returned slices are freshly allocated; the input is never mutated.
// Guarantees: adapted contains no system entries and never two consecutive
// user entries. Empty input yields empty outputs.
func Normalize(messages []Message) (adapted []Message, system []Part) {
	for _, msg := range messages {
		role := msg.Role
		if role == "" {
			role = RoleUser
		}

		parts := append([]Part(nil), msg.Content...)

		if role == RoleSystem {
			system = append(system, parts...)
			continue
		}

		if role == RoleUser && len(adapted) > 0 && adapted[len(adapted)-1].Role == RoleUser {
			last := &adapted[len(adapted)-1]
			last.Content = append(last.Content, parts...)
			continue
		}

		adapted = append(adapted, Message{Role: role, Content: parts})
	}
	return adapted, system
}
