package document_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/su2gui/su2cfg/pkg/document"
)

var _ = Describe("Document", func() {
	It("keeps insertion order", func() {
		doc := document.New()
		doc.Set("ZETA", document.Int(1))
		doc.Set("ALPHA", document.Int(2))
		doc.Set("MID", document.Int(3))

		Expect(doc.Keys()).To(Equal([]string{"ZETA", "ALPHA", "MID"}))
	})

	It("keeps the first position when a key is overwritten", func() {
		doc := document.New()
		doc.Set("A", document.Int(1))
		doc.Set("B", document.Int(2))
		doc.Set("A", document.String("last"))

		Expect(doc.Keys()).To(Equal([]string{"A", "B"}))

		v, ok := doc.Get("A")
		Expect(ok).To(BeTrue())
		Expect(v.Equal(document.String("last"))).To(BeTrue())
	})

	It("clones without aliasing lists", func() {
		doc := document.FromFields(document.Field{
			Key:   "MARKER_EULER",
			Value: document.List(document.String("airfoil")),
		})

		clone := doc.Clone()
		v, _ := doc.Get("MARKER_EULER")
		v.Elems()[0] = document.String("changed")

		cv, _ := clone.Get("MARKER_EULER")
		Expect(cv.Elems()[0].Equal(document.String("airfoil"))).To(BeTrue())
	})

	It("deletes keys", func() {
		doc := document.FromFields(document.Field{Key: "A", Value: document.Int(1)})

		Expect(doc.Delete("A")).To(BeTrue())
		Expect(doc.Delete("A")).To(BeFalse())
		Expect(doc.Len()).To(BeZero())
	})

	Describe("JSON", func() {
		It("writes keys sorted with the requested indent", func() {
			doc := document.FromFields(
				document.Field{Key: "MACH_NUMBER", Value: document.Float(0.8)},
				document.Field{Key: "AOA", Value: document.Float(1.0)},
				document.Field{Key: "RESTART_SOL", Value: document.Bool(false)},
			)

			var buf bytes.Buffer
			Expect(doc.WriteJSON(&buf, 4)).To(Succeed())

			Expect(buf.String()).To(Equal(`{
    "AOA": 1.0,
    "MACH_NUMBER": 0.8,
    "RESTART_SOL": false
}
`))
		})

		It("keeps non-ASCII and HTML characters unescaped", func() {
			doc := document.FromFields(
				document.Field{Key: "MESH_FILENAME", Value: document.String("maillage_é<1>.su2")},
			)

			var buf bytes.Buffer
			Expect(doc.WriteJSON(&buf, 2)).To(Succeed())
			Expect(buf.String()).To(ContainSubstring(`"maillage_é<1>.su2"`))
		})

		It("reads objects in input order with typed numbers", func() {
			doc, err := document.ReadJSON(strings.NewReader(
				`{"INNER_ITER": 100, "CFL_NUMBER": 1.0, "MARKER_FAR": ["farfield"], "SOLVER": "EULER", "X": null}`,
			))
			Expect(err).ToNot(HaveOccurred())

			Expect(doc.Keys()).To(Equal([]string{"INNER_ITER", "CFL_NUMBER", "MARKER_FAR", "SOLVER", "X"}))

			iter, _ := doc.Get("INNER_ITER")
			Expect(iter.Kind()).To(Equal(document.KindInt))

			cfl, _ := doc.Get("CFL_NUMBER")
			Expect(cfl.Kind()).To(Equal(document.KindFloat))

			x, _ := doc.Get("X")
			Expect(x.Equal(document.String(""))).To(BeTrue())
		})

		It("round-trips through WriteJSON and ReadJSON", func() {
			doc := document.FromFields(
				document.Field{Key: "A", Value: document.Float(2.0)},
				document.Field{Key: "B", Value: document.List(document.Int(1), document.List(document.String("x")))},
				document.Field{Key: "C", Value: document.Bool(true)},
			)

			var buf bytes.Buffer
			Expect(doc.WriteJSON(&buf, 2)).To(Succeed())

			back, err := document.ReadJSON(&buf)
			Expect(err).ToNot(HaveOccurred())
			Expect(back.Equal(doc)).To(BeTrue())
		})

		It("rejects a non-object root", func() {
			_, err := document.ReadJSON(strings.NewReader(`[1, 2]`))
			Expect(err).To(MatchError(document.ErrNotObject))
		})

		It("rejects nested objects", func() {
			_, err := document.ReadJSON(strings.NewReader(`{"A": {"b": 1}}`))
			Expect(err).To(MatchError(ContainSubstring("unsupported value")))
		})

		DescribeTable("rejects content after the document",
			func(input string) {
				_, err := document.ReadJSON(strings.NewReader(input))
				Expect(err).To(MatchError(document.ErrTrailingData))
			},
			Entry("truncated second object", `{"SOLVER": "RANS"} {"oops": `),
			Entry("second object", `{"SOLVER": "RANS"}{"SOLVER": "LES"}`),
			Entry("stray scalar", `{"SOLVER": "RANS"} 1`),
			Entry("stray closing brace", `{"SOLVER": "RANS"}}`),
		)

		It("accepts trailing whitespace", func() {
			doc, err := document.ReadJSON(strings.NewReader("{\"SOLVER\": \"RANS\"}\n\t \n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Len()).To(Equal(1))
		})
	})

	Describe("YAML", func() {
		It("writes fields in insertion order", func() {
			doc := document.FromFields(
				document.Field{Key: "SOLVER", Value: document.String("RANS")},
				document.Field{Key: "MARKER_HEATFLUX", Value: document.List(document.String("wall"), document.Float(0))},
				document.Field{Key: "RESTART_SOL", Value: document.Bool(true)},
			)

			var buf bytes.Buffer
			Expect(doc.WriteYAML(&buf)).To(Succeed())
			Expect(buf.String()).To(Equal("SOLVER: RANS\nMARKER_HEATFLUX: [wall, 0.0]\nRESTART_SOL: true\n"))
		})

		It("reads back what it writes", func() {
			doc := document.FromFields(
				document.Field{Key: "SOLVER", Value: document.String("RANS")},
				document.Field{Key: "INNER_ITER", Value: document.Int(100)},
				document.Field{Key: "MARKER_HEATFLUX", Value: document.List(document.String("wall"), document.Float(0))},
				document.Field{Key: "RESTART_SOL", Value: document.Bool(false)},
			)

			var buf bytes.Buffer
			Expect(doc.WriteYAML(&buf)).To(Succeed())

			back, err := document.ReadYAML(&buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(back.Equal(doc)).To(BeTrue())
		})

		It("maps null to an empty string", func() {
			doc, err := document.ReadYAML(strings.NewReader("MESH_FILENAME: ~\n"))
			Expect(err).NotTo(HaveOccurred())

			v, ok := doc.Get("MESH_FILENAME")
			Expect(ok).To(BeTrue())
			Expect(v.Equal(document.String(""))).To(BeTrue())
		})

		It("rejects a non-mapping root", func() {
			_, err := document.ReadYAML(strings.NewReader("- a\n- b\n"))
			Expect(err).To(MatchError(document.ErrNotObject))
		})

		It("rejects nested mappings", func() {
			_, err := document.ReadYAML(strings.NewReader("A:\n  b: 1\n"))
			Expect(err).To(MatchError(document.ErrUnsupportedValue))
		})

		DescribeTable("rejects non-finite floats",
			func(input string) {
				_, err := document.ReadYAML(strings.NewReader(input))
				Expect(err).To(MatchError(document.ErrUnsupportedValue))
			},
			Entry("infinity", "CFL_NUMBER: .inf\n"),
			Entry("negative infinity", "CFL_NUMBER: -.inf\n"),
			Entry("not a number", "CFL_NUMBER: .nan\n"),
			Entry("inside a list", "MACH: [0.8, .inf]\n"),
		)

		It("reads an empty input as an empty document", func() {
			doc, err := document.ReadYAML(strings.NewReader(""))
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Len()).To(BeZero())
		})
	})
})
