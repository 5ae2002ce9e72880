package chat_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/awr103/medi8-final/pkg/chat"
)

var _ = Describe("Request", func() {
	Describe("Validate", func() {
		Context("when the messages array is missing or empty", func() {
			It("rejects a nil messages slice", func() {
				req := &chat.Request{}

				err := req.Validate()

				var verr *chat.ValidationError
				Expect(err).To(BeAssignableToTypeOf(verr))
				Expect(err.Error()).To(Equal("messages must be a non-empty array"))
			})

			It("rejects an empty messages slice", func() {
				req := &chat.Request{Messages: []chat.Message{}}

				Expect(req.Validate()).To(MatchError("messages must be a non-empty array"))
			})
		})

		Context("when a message has an unknown role", func() {
			It("names the offending message index", func() {
				req := &chat.Request{Messages: []chat.Message{
					{Role: chat.RoleUser, Content: "hello"},
					{Role: "robot", Content: "beep"},
				}}

				Expect(req.Validate()).To(MatchError("messages[1]: role must be one of system, user, assistant"))
			})

			It("checks the role before the content of the same message", func() {
				req := &chat.Request{Messages: []chat.Message{
					{Role: "robot", Content: ""},
				}}

				Expect(req.Validate()).To(MatchError(ContainSubstring("role must be one of")))
			})
		})

		Context("when a message has empty content", func() {
			It("rejects the empty string", func() {
				req := &chat.Request{Messages: []chat.Message{
					{Role: chat.RoleUser, Content: ""},
				}}

				Expect(req.Validate()).To(MatchError("messages[0]: content must not be empty"))
			})

			It("rejects whitespace-only content", func() {
				req := &chat.Request{Messages: []chat.Message{
					{Role: chat.RoleUser, Content: "   \n\t"},
				}}

				Expect(req.Validate()).To(MatchError("messages[0]: content must not be empty"))
			})
		})

		Context("when several constraints are violated", func() {
			It("surfaces only the first violation in message order", func() {
				req := &chat.Request{Messages: []chat.Message{
					{Role: chat.RoleUser, Content: ""},
					{Role: "robot", Content: "beep"},
				}}

				Expect(req.Validate()).To(MatchError("messages[0]: content must not be empty"))
			})
		})

		Context("when the request is well-formed", func() {
			It("accepts a single user message", func() {
				req := &chat.Request{Messages: []chat.Message{
					{Role: chat.RoleUser, Content: "hello"},
				}}

				Expect(req.Validate()).To(Succeed())
			})

			It("accepts every known role", func() {
				req := &chat.Request{Messages: []chat.Message{
					{Role: chat.RoleSystem, Content: "be helpful"},
					{Role: chat.RoleUser, Content: "hi"},
					{Role: chat.RoleAssistant, Content: "hello"},
					{Role: chat.RoleUser, Content: "how are you?"},
				}}

				Expect(req.Validate()).To(Succeed())
			})
		})
	})
})
