package transcode_test

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/su2gui/su2cfg/internal/backup"
	"github.com/su2gui/su2cfg/internal/transcode"
	"github.com/su2gui/su2cfg/internal/variables"
	"github.com/su2gui/su2cfg/pkg/config"
	"github.com/su2gui/su2cfg/pkg/document"
)

const heatfluxCfg = "MARKER_HEATFLUX= (wall, 0.0)\nINNER_ITER= 100\n% note\n"

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())

	return path
}

func readFile(path string) string {
	data, err := os.ReadFile(path)
	Expect(err).NotTo(HaveOccurred())

	return string(data)
}

var _ = Describe("Transcoder", func() {
	var (
		dir string
		tc  *transcode.Transcoder
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		tc = transcode.New(nil)
	})

	Describe("CfgToDocument", func() {
		It("decodes fields and warnings", func() {
			path := writeFile(dir, "case.cfg", heatfluxCfg+"BROKEN LINE\n")

			doc, warnings, err := tc.CfgToDocument(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Keys()).To(Equal([]string{"MARKER_HEATFLUX", "INNER_ITER"}))
			Expect(warnings).To(HaveLen(1))
			Expect(warnings[0].Line).To(Equal(4))
		})

		It("reports a missing file as not found", func() {
			_, _, err := tc.CfgToDocument(filepath.Join(dir, "nope.cfg"))
			Expect(errors.Is(err, transcode.ErrNotFound)).To(BeTrue())
		})
	})

	Describe("CfgToJSON", func() {
		It("writes sorted JSON with the configured indent", func() {
			indent := 4
			tc = transcode.New(&config.Config{Output: &config.OutputConfig{JSONIndent: &indent}})

			in := writeFile(dir, "case.cfg", "SOLVER= RANS\nMACH_NUMBER= 0.8\n")
			out := filepath.Join(dir, "out", "case.json")

			doc, err := tc.CfgToJSON(in, out)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Len()).To(Equal(2))
			Expect(readFile(out)).To(Equal("{\n    \"MACH_NUMBER\": 0.8,\n    \"SOLVER\": \"RANS\"\n}\n"))
		})

		It("skips writing without an output path", func() {
			in := writeFile(dir, "case.cfg", "SOLVER= EULER\n")

			doc, err := tc.CfgToJSON(in, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Keys()).To(Equal([]string{"SOLVER"}))
		})
	})

	Describe("DocumentToCfg", func() {
		It("writes the header and fields", func() {
			doc := document.FromFields(
				document.Field{Key: "SOLVER", Value: document.String("RANS")},
				document.Field{Key: "RESTART_SOL", Value: document.Bool(true)},
				document.Field{Key: "MESH_OUT_FILENAME", Value: document.String("none")},
			)

			out := filepath.Join(dir, "case.cfg")
			Expect(tc.DocumentToCfg(doc, out, "generated")).To(Succeed())
			Expect(readFile(out)).To(Equal("% generated\nSOLVER= RANS\nRESTART_SOL= YES\n"))
		})

		It("substitutes variables", func() {
			vars := variables.NewSet()
			Expect(vars.Add("__MESH__", "channel.su2", "")).To(Succeed())

			tc = transcode.New(nil, transcode.WithVariables(vars))

			doc := document.FromFields(document.Field{Key: "MESH_FILENAME", Value: document.String("__MESH__")})
			out := filepath.Join(dir, "case.cfg")
			Expect(tc.DocumentToCfg(doc, out, "")).To(Succeed())
			Expect(readFile(out)).To(Equal("MESH_FILENAME= channel.su2\n"))

			v, _ := doc.Get("MESH_FILENAME")
			Expect(v.Equal(document.String("__MESH__"))).To(BeTrue())
		})

		It("backs up an existing target", func() {
			mgr, err := backup.NewFilesystemManager(filepath.Join(dir, "backups"), &config.BackupConfig{}, nil)
			Expect(err).NotTo(HaveOccurred())

			tc = transcode.New(nil, transcode.WithBackupManager(mgr))

			out := writeFile(dir, "case.cfg", "SOLVER= EULER\n")
			doc := document.FromFields(document.Field{Key: "SOLVER", Value: document.String("RANS")})
			Expect(tc.DocumentToCfg(doc, out, "")).To(Succeed())

			snapshots, err := mgr.ListFor(out)
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshots).To(HaveLen(1))
			Expect(snapshots[0].Size).To(BeEquivalentTo(len("SOLVER= EULER\n")))
		})
	})

	Describe("JSONToCfg", func() {
		It("converts a JSON document in read order", func() {
			in := writeFile(dir, "case.json", `{"SOLVER": "RANS", "INNER_ITER": 10, "MARKER_WALL": ["a", "b"]}`)
			out := filepath.Join(dir, "case.cfg")

			Expect(tc.JSONToCfg(in, out, "")).To(Succeed())
			Expect(readFile(out)).To(Equal("SOLVER= RANS\nINNER_ITER= 10\nMARKER_WALL= (a, b)\n"))
		})

		It("converts a YAML document", func() {
			in := writeFile(dir, "case.yaml", "SOLVER: EULER\nCFL_NUMBER: 1.5\n")
			out := filepath.Join(dir, "case.cfg")

			Expect(tc.JSONToCfg(in, out, "")).To(Succeed())
			Expect(readFile(out)).To(Equal("SOLVER= EULER\nCFL_NUMBER= 1.5\n"))
		})

		It("reports malformed JSON as a decode error", func() {
			in := writeFile(dir, "case.json", `{"SOLVER": `)

			err := tc.JSONToCfg(in, filepath.Join(dir, "case.cfg"), "")
			Expect(errors.Is(err, transcode.ErrDecode)).To(BeTrue())
		})

		It("reports content after the JSON object as a decode error", func() {
			in := writeFile(dir, "case.json", `{"SOLVER": "RANS"} {"oops": `)
			out := filepath.Join(dir, "case.cfg")

			err := tc.JSONToCfg(in, out, "")
			Expect(errors.Is(err, transcode.ErrDecode)).To(BeTrue())
			Expect(err).To(MatchError(ContainSubstring("trailing data after document")))
			Expect(out).NotTo(BeAnExistingFile())
		})

		It("reports non-finite YAML floats as a decode error", func() {
			in := writeFile(dir, "case.yaml", "CFL_NUMBER: .inf\n")

			_, err := tc.LoadDocument(in)
			Expect(errors.Is(err, transcode.ErrDecode)).To(BeTrue())
		})
	})

	Describe("RenderDocument", func() {
		It("renders YAML in insertion order", func() {
			doc := document.FromFields(
				document.Field{Key: "Z", Value: document.Int(1)},
				document.Field{Key: "A", Value: document.Int(2)},
			)

			data, err := tc.RenderDocument(doc, config.FormatYAML)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("Z: 1\nA: 2\n"))
		})

		It("rejects unknown formats", func() {
			_, err := tc.RenderDocument(document.New(), "xml")
			Expect(err).To(MatchError(transcode.ErrUnknownFormat))
		})
	})

	It("derives formats from file extensions", func() {
		Expect(transcode.FormatForPath("a.yml")).To(Equal(config.FormatYAML))
		Expect(transcode.FormatForPath("a.YAML")).To(Equal(config.FormatYAML))
		Expect(transcode.FormatForPath("a.json")).To(Equal(config.FormatJSON))
		Expect(transcode.IsDocumentPath("a.cfg")).To(BeFalse())
		Expect(transcode.IsDocumentPath("a.JSON")).To(BeTrue())
	})
})
