package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/su2gui/su2cfg/internal/backup"
	"github.com/su2gui/su2cfg/internal/config"
	"github.com/su2gui/su2cfg/internal/xdg"
	pkgConfig "github.com/su2gui/su2cfg/pkg/config"
)

var _ = Describe("Writer", func() {
	var (
		paths     xdg.PathResolver
		backupMgr *backup.Manager
		writer    *config.Writer
	)

	BeforeEach(func() {
		tmpDir := GinkgoT().TempDir()
		paths = xdg.ResolverFor(filepath.Join(tmpDir, "home"), filepath.Join(tmpDir, "work"))

		var err error
		backupMgr, err = backup.NewFilesystemManager(paths.BackupDir(), &pkgConfig.BackupConfig{}, nil)
		Expect(err).NotTo(HaveOccurred())

		writer = config.NewWriter(paths, backupMgr)
	})

	It("rejects a nil config", func() {
		Expect(writer.WriteGlobal(nil)).To(MatchError(config.ErrInvalidConfig))
	})

	It("writes settings that load back", func() {
		cfg := &pkgConfig.Config{
			Version: 1,
			Schema:  &pkgConfig.SchemaConfig{Path: "/data/su2_schema.json"},
			Output:  &pkgConfig.OutputConfig{Format: pkgConfig.FormatYAML},
		}

		Expect(writer.WriteGlobal(cfg)).To(Succeed())

		path := writer.GlobalConfigPath()
		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(config.ConfigFileMode)))

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(HavePrefix("# su2cfg settings"))
		Expect(string(data)).To(ContainSubstring("[schema]"))

		loaded, err := config.LoadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.GetSchema().Path).To(Equal("/data/su2_schema.json"))
		Expect(loaded.GetOutput().GetFormat()).To(Equal("yaml"))
	})

	It("does not back up a file that did not exist", func() {
		Expect(writer.WriteProject(&pkgConfig.Config{Version: 1})).To(Succeed())

		snapshots, err := backupMgr.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(snapshots).To(BeEmpty())
	})

	It("backs up the previous file before overwriting it", func() {
		first := &pkgConfig.Config{Solver: &pkgConfig.SolverConfig{CFDPath: "/old/SU2_CFD"}}
		Expect(writer.WriteProject(first)).To(Succeed())

		second := &pkgConfig.Config{Solver: &pkgConfig.SolverConfig{CFDPath: "/new/SU2_CFD"}}
		Expect(writer.WriteProject(second)).To(Succeed())

		snapshots, err := backupMgr.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(snapshots).To(HaveLen(1))
		Expect(snapshots[0].Trigger).To(Equal(backup.TriggerAutomatic))

		loaded, err := config.LoadFile(writer.ProjectConfigPath())
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.GetSolver().CFDPath).To(Equal("/new/SU2_CFD"))
	})

	It("skips backups when they are disabled", func() {
		disabled := false
		mgr, err := backup.NewFilesystemManager(
			paths.BackupDir(),
			&pkgConfig.BackupConfig{Enabled: &disabled},
			nil,
		)
		Expect(err).NotTo(HaveOccurred())

		writer = config.NewWriter(paths, mgr)
		Expect(writer.WriteGlobal(&pkgConfig.Config{Version: 1})).To(Succeed())
		Expect(writer.WriteGlobal(&pkgConfig.Config{Version: 1, Schema: &pkgConfig.SchemaConfig{Path: "x"}})).To(Succeed())

		snapshots, err := mgr.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(snapshots).To(BeEmpty())
	})
})

var _ = Describe("DefaultConfig", func() {
	It("round-trips through Marshal", func() {
		data, err := config.Marshal(config.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("json_indent = 2"))
		Expect(string(data)).To(ContainSubstring("720h0m0s"))
	})
})
