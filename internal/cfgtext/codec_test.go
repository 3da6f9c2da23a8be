package cfgtext_test

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/su2gui/su2cfg/internal/cfgtext"
	"github.com/su2gui/su2cfg/pkg/document"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

var _ = Describe("Decode", func() {
	It("decodes the end-to-end sample", func() {
		doc, warnings := cfgtext.DecodeString("MARKER_HEATFLUX= (wall, 0.0)\nINNER_ITER= 100\n% note\n")

		Expect(warnings).To(BeEmpty())
		Expect(doc.Equal(document.FromFields(
			document.Field{Key: "MARKER_HEATFLUX", Value: document.List(document.String("wall"), document.Float(0))},
			document.Field{Key: "INNER_ITER", Value: document.Int(100)},
		))).To(BeTrue())
	})

	It("strips inline comments", func() {
		doc, warnings := cfgtext.DecodeString("KEY= 1.0 % comment\n")

		Expect(warnings).To(BeEmpty())

		v, ok := doc.Get("KEY")
		Expect(ok).To(BeTrue())
		Expect(v.Equal(document.Float(1.0))).To(BeTrue())
	})

	It("silently skips comment-only and blank lines", func() {
		doc, warnings := cfgtext.DecodeString("% SU2 configuration\n\n   % indented comment\n\t\n")

		Expect(warnings).To(BeEmpty())
		Expect(doc.Len()).To(BeZero())
	})

	It("warns about lines without '=' and keeps going", func() {
		doc, warnings := cfgtext.DecodeString("SOLVER= EULER\nGARBAGE LINE\nMACH_NUMBER= 0.8\n")

		Expect(doc.Keys()).To(Equal([]string{"SOLVER", "MACH_NUMBER"}))
		Expect(warnings).To(HaveLen(1))
		Expect(warnings[0].Line).To(Equal(2))
		Expect(warnings[0].Text).To(Equal("GARBAGE LINE"))
	})

	It("warns about empty keys", func() {
		_, warnings := cfgtext.DecodeString("= 12\n")

		Expect(warnings).To(HaveLen(1))
		Expect(warnings[0].Message).To(Equal("empty key"))
	})

	It("splits at the first '=' only", func() {
		doc, _ := cfgtext.DecodeString("CUSTOM_OUTPUTS= 'avg=MACH'\n")

		v, _ := doc.Get("CUSTOM_OUTPUTS")
		Expect(v.Equal(document.String("'avg=MACH'"))).To(BeTrue())
	})

	It("lets the last duplicate key win", func() {
		doc, _ := cfgtext.DecodeString("A= 1\nB= 2\nA= 3\n")

		Expect(doc.Keys()).To(Equal([]string{"A", "B"}))

		v, _ := doc.Get("A")
		Expect(v.Equal(document.Int(3))).To(BeTrue())
	})

	It("reports reader failures", func() {
		_, _, err := cfgtext.Decode(failingReader{})

		Expect(err).To(MatchError(ContainSubstring("disk on fire")))
	})
})

var _ = Describe("Encode", func() {
	It("writes header and fields in insertion order", func() {
		doc := document.FromFields(
			document.Field{Key: "SOLVER", Value: document.String("RANS")},
			document.Field{Key: "RESTART_SOL", Value: document.Bool(false)},
			document.Field{Key: "MARKER_EULER", Value: document.List(document.String("airfoil"))},
			document.Field{Key: "CFL_NUMBER", Value: document.Float(10)},
		)

		Expect(cfgtext.EncodeString(doc, "SU2 configuration")).To(Equal(
			"% SU2 configuration\n" +
				"SOLVER= RANS\n" +
				"RESTART_SOL= NO\n" +
				"MARKER_EULER= (airfoil)\n" +
				"CFL_NUMBER= 10.0\n",
		))
	})

	It("keeps header lines that are already comments", func() {
		out := cfgtext.EncodeString(document.New(), "% line one\nline two\n")

		Expect(out).To(Equal("% line one\n% line two\n"))
	})

	It("omits empty strings and none", func() {
		doc := document.FromFields(
			document.Field{Key: "A", Value: document.String("")},
			document.Field{Key: "B", Value: document.String("None")},
			document.Field{Key: "C", Value: document.String("NONE")},
			document.Field{Key: "D", Value: document.Int(0)},
		)

		Expect(cfgtext.EncodeString(doc, "")).To(Equal("D= 0\n"))
	})

	It("flattens exactly one level of nesting", func() {
		doc := document.FromFields(document.Field{
			Key: "MARKER_ISOTHERMAL",
			Value: document.List(
				document.List(document.Int(1), document.Int(2)),
				document.List(document.Int(3), document.Int(4)),
			),
		})

		Expect(cfgtext.EncodeString(doc, "")).To(Equal("MARKER_ISOTHERMAL= (1, 2, 3, 4)\n"))
	})

	It("keeps parentheses below the flattened level", func() {
		v := document.List(document.List(document.Int(1), document.List(document.Int(2), document.Int(3))))

		Expect(cfgtext.FormatValue(v)).To(Equal("(1, (2, 3))"))
	})

	It("writes empty lists as ()", func() {
		Expect(cfgtext.FormatValue(document.List())).To(Equal("()"))
	})

	DescribeTable("round-trips flat documents",
		func(value document.Value) {
			doc := document.FromFields(document.Field{Key: "FIELD", Value: value})

			back, warnings := cfgtext.DecodeString(cfgtext.EncodeString(doc, "round trip"))

			Expect(warnings).To(BeEmpty())
			Expect(back.Equal(doc)).To(BeTrue(), "got %v", back.Fields())
		},
		Entry("bool", document.Bool(true)),
		Entry("int", document.Int(-3)),
		Entry("float", document.Float(2.5e-7)),
		Entry("integral float", document.Float(300)),
		Entry("string", document.String("MENTER_SST")),
		Entry("flat list", document.List(document.String("wall"), document.Float(0), document.Int(7), document.Bool(false))),
		Entry("empty list", document.List()),
	)

	It("writes every line as KEY= value", func() {
		doc := document.FromFields(
			document.Field{Key: "MACH_NUMBER", Value: document.Float(0.8)},
			document.Field{Key: "AOA", Value: document.Float(1.25)},
		)

		for _, line := range strings.Split(strings.TrimSpace(cfgtext.EncodeString(doc, "")), "\n") {
			Expect(line).To(MatchRegexp(`^[A-Z_]+= \S`))
		}
	})
})
