package schema_test

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/su2gui/su2cfg/internal/fsutil"
	"github.com/su2gui/su2cfg/internal/schema"
)

var _ = Describe("schema files", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("saves and loads a schema", func() {
		path := filepath.Join(dir, "schema.json")

		Expect(schema.SaveFile(path, sampleSchema())).To(Succeed())

		loaded, err := schema.LoadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded["properties"]).To(HaveKey("SOLVER"))
	})

	It("writes two-space indentation", func() {
		data, err := schema.Encode(map[string]any{"type": "object", "title": "<cfg>"})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("{\n  \"title\": \"<cfg>\",\n  \"type\": \"object\"\n}\n"))
	})

	It("reports a missing file as not found", func() {
		_, err := schema.LoadFile(filepath.Join(dir, "missing.json"))
		Expect(errors.Is(err, fsutil.ErrNotFound)).To(BeTrue())
	})

	It("reports malformed JSON as a decode error", func() {
		path := filepath.Join(dir, "broken.json")
		Expect(os.WriteFile(path, []byte(`{"type": `), 0o600)).To(Succeed())

		_, err := schema.LoadFile(path)
		Expect(errors.Is(err, fsutil.ErrDecode)).To(BeTrue())
	})

	It("rejects a non-object document", func() {
		_, err := schema.Decode([]byte(`null`))
		Expect(errors.Is(err, fsutil.ErrDecode)).To(BeTrue())

		_, err = schema.Decode([]byte(`[1]`))
		Expect(errors.Is(err, fsutil.ErrDecode)).To(BeTrue())
	})

	DescribeTable("ExportPath",
		func(in, expected string) {
			Expect(schema.ExportPath(in)).To(Equal(expected))
		},
		Entry("json file", "/tmp/schema.json", "/tmp/schema_exported.json"),
		Entry("no extension", "schema", "schema_exported.json"),
		Entry("dotted stem", "su2.v7.json", "su2.v7_exported.json"),
	)
})
