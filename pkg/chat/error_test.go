package chat_test

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/awr103/medi8-final/pkg/chat"
)

var _ = Describe("UpstreamError", func() {
	It("carries its cause for the operational log", func() {
		cause := errors.New("provider returned 503: overloaded")
		err := &chat.UpstreamError{Err: cause}

		Expect(err.Error()).To(ContainSubstring("upstream completion failed"))
		Expect(errors.Unwrap(err)).To(Equal(cause))
	})

	It("is matched through wrapping with errors.As", func() {
		wrapped := fmt.Errorf("handling request: %w", &chat.UpstreamError{Err: errors.New("boom")})

		var upstream *chat.UpstreamError
		Expect(errors.As(wrapped, &upstream)).To(BeTrue())
	})

	It("has a message even without a cause", func() {
		err := &chat.UpstreamError{}

		Expect(err.Error()).NotTo(BeEmpty())
	})
})

var _ = Describe("ValidationError", func() {
	It("returns its reason verbatim", func() {
		err := &chat.ValidationError{Reason: "messages must be a non-empty array"}

		Expect(err.Error()).To(Equal("messages must be a non-empty array"))
	})
})
