package document_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/su2gui/su2cfg/pkg/document"
)

var _ = Describe("Value", func() {
	It("treats the zero value as an empty string", func() {
		var v document.Value

		s, ok := v.Str()
		Expect(ok).To(BeTrue())
		Expect(s).To(BeEmpty())
	})

	DescribeTable("String rendering",
		func(v document.Value, want string) {
			Expect(v.String()).To(Equal(want))
		},
		Entry("true", document.Bool(true), "YES"),
		Entry("false", document.Bool(false), "NO"),
		Entry("int", document.Int(-42), "-42"),
		Entry("integral float", document.Float(100), "100.0"),
		Entry("small float", document.Float(1e-5), "1e-05"),
		Entry("large float", document.Float(1e16), "1e+16"),
		Entry("plain float", document.Float(0.0001), "0.0001"),
		Entry("string", document.String("JST"), "JST"),
		Entry("nested list", document.List(document.Int(1), document.List(document.Int(2))), "(1, (2))"),
	)

	It("formats non-finite floats", func() {
		Expect(document.FormatFloat(math.Inf(1))).To(Equal("inf"))
		Expect(document.FormatFloat(math.NaN())).To(Equal("nan"))
	})

	It("compares kinds strictly", func() {
		Expect(document.Int(1).Equal(document.Float(1))).To(BeFalse())
		Expect(document.List().Equal(document.List())).To(BeTrue())
	})

	It("converts to plain values", func() {
		v := document.List(document.String("a"), document.Int(1), document.Float(0.5), document.Bool(true))

		Expect(v.Any()).To(Equal([]any{"a", int64(1), 0.5, true}))
	})
})
