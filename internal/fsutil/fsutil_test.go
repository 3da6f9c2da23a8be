package fsutil_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/su2gui/su2cfg/internal/fsutil"
)

var _ = Describe("ReadFile", func() {
	It("returns ErrNotFound for a missing file", func() {
		_, err := fsutil.ReadFile(filepath.Join(GinkgoT().TempDir(), "missing.cfg"))
		Expect(err).To(MatchError(fsutil.ErrNotFound))
		Expect(err.Error()).To(ContainSubstring("missing.cfg"))
	})

	It("reads an existing file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "case.cfg")
		Expect(os.WriteFile(path, []byte("SOLVER= EULER\n"), 0o600)).To(Succeed())

		data, err := fsutil.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("SOLVER= EULER\n"))
	})
})

var _ = Describe("Open", func() {
	It("returns ErrNotFound for a missing file", func() {
		_, err := fsutil.Open(filepath.Join(GinkgoT().TempDir(), "missing.cfg"))
		Expect(err).To(MatchError(fsutil.ErrNotFound))
	})
})

var _ = Describe("WriteFileAtomic", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("creates parent directories", func() {
		path := filepath.Join(dir, "a", "b", "case.json")

		Expect(fsutil.WriteFileAtomic(path, []byte("{}\n"), fsutil.FilePerm)).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("{}\n"))
	})

	It("replaces existing content and applies the mode", func() {
		path := filepath.Join(dir, "config.toml")
		Expect(os.WriteFile(path, []byte("old"), 0o644)).To(Succeed())

		Expect(fsutil.WriteFileAtomic(path, []byte("new"), 0o600)).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("new"))

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
	})

	It("leaves no temporary files behind", func() {
		path := filepath.Join(dir, "case.cfg")
		Expect(fsutil.WriteFileAtomic(path, []byte("x"), fsutil.FilePerm)).To(Succeed())

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Name()).To(Equal("case.cfg"))
	})
})

var _ = Describe("Exists", func() {
	It("reports existing and missing paths", func() {
		dir := GinkgoT().TempDir()

		Expect(fsutil.Exists(dir)).To(BeTrue())
		Expect(fsutil.Exists(filepath.Join(dir, "nope"))).To(BeFalse())
	})
})

var _ = Describe("ExpandInputs", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()

		for _, name := range []string{"b.cfg", "a.cfg", "sub/c.cfg", "sub/d.json"} {
			path := filepath.Join(dir, name)
			Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
			Expect(os.WriteFile(path, nil, 0o600)).To(Succeed())
		}
	})

	It("expands recursive globs into a sorted list", func() {
		paths, err := fsutil.ExpandInputs([]string{filepath.Join(dir, "**", "*.cfg")})
		Expect(err).NotTo(HaveOccurred())
		Expect(paths).To(Equal([]string{
			filepath.Join(dir, "a.cfg"),
			filepath.Join(dir, "b.cfg"),
			filepath.Join(dir, "sub", "c.cfg"),
		}))
	})

	It("removes duplicates", func() {
		a := filepath.Join(dir, "a.cfg")

		paths, err := fsutil.ExpandInputs([]string{a, filepath.Join(dir, "*.cfg"), a})
		Expect(err).NotTo(HaveOccurred())
		Expect(paths).To(Equal([]string{a, filepath.Join(dir, "b.cfg")}))
	})

	It("keeps plain paths even when they do not exist", func() {
		missing := filepath.Join(dir, "missing.cfg")

		paths, err := fsutil.ExpandInputs([]string{missing})
		Expect(err).NotTo(HaveOccurred())
		Expect(paths).To(Equal([]string{missing}))
	})

	It("fails when a pattern matches nothing", func() {
		_, err := fsutil.ExpandInputs([]string{filepath.Join(dir, "*.yaml")})
		Expect(err).To(MatchError(fsutil.ErrNotFound))
	})
})
