package schema_test

import (
	"github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/su2gui/su2cfg/internal/schema"
)

var _ = Describe("SettingsSchema", func() {
	var s map[string]any

	BeforeEach(func() {
		data, err := schema.SettingsSchemaJSON(true)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(data, &s)).To(Succeed())
	})

	It("sets the $schema URI and title", func() {
		Expect(s["$schema"]).To(Equal("https://json-schema.org/draft/2020-12/schema"))
		Expect(s["title"]).To(Equal("su2cfg settings"))
	})

	It("includes top-level properties", func() {
		props, ok := s["properties"].(map[string]any)
		Expect(ok).To(BeTrue())

		for _, key := range []string{"version", "solver", "schema", "output", "backup"} {
			Expect(props).To(HaveKey(key), "missing top-level property: %s", key)
		}
	})

	It("defines Duration as string with pattern", func() {
		defs, ok := s["$defs"].(map[string]any)
		Expect(ok).To(BeTrue())

		dur, ok := defs["Duration"].(map[string]any)
		Expect(ok).To(BeTrue(), "Duration def should exist")
		Expect(dur["type"]).To(Equal("string"))
		Expect(dur["pattern"]).NotTo(BeEmpty())
	})

	It("produces compact JSON when indent is false", func() {
		data, err := schema.SettingsSchemaJSON(false)
		Expect(err).NotTo(HaveOccurred())

		lines := 0

		for _, b := range data {
			if b == '\n' {
				lines++
			}
		}

		Expect(lines).To(Equal(1))
	})
})
