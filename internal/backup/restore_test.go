package backup_test

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/su2gui/su2cfg/internal/backup"
	"github.com/su2gui/su2cfg/pkg/config"
	"github.com/su2gui/su2cfg/pkg/logger"
)

var _ = Describe("Restore", func() {
	var (
		backupDir  string
		sourcePath string
		manager    *backup.Manager
		snapshot   *backup.Snapshot
	)

	BeforeEach(func() {
		tmp := GinkgoT().TempDir()
		backupDir = filepath.Join(tmp, "backups")
		sourcePath = filepath.Join(tmp, "case.cfg")

		Expect(os.WriteFile(sourcePath, []byte("MACH_NUMBER= 0.8\n"), 0o600)).To(Succeed())

		var err error

		manager, err = backup.NewFilesystemManager(backupDir, &config.BackupConfig{}, logger.NewNoOpLogger())
		Expect(err).NotTo(HaveOccurred())

		snapshot, err = manager.CreateBackup(backup.CreateBackupOptions{SourcePath: sourcePath})
		Expect(err).NotTo(HaveOccurred())

		Expect(os.WriteFile(sourcePath, []byte("MACH_NUMBER= 2.0\n"), 0o600)).To(Succeed())
	})

	It("restores the original content and mode", func() {
		result, err := manager.Restore(snapshot.ID, backup.RestoreOptions{Validate: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.RestoredPath).To(Equal(sourcePath))
		Expect(result.ChecksumVerified).To(BeTrue())

		data, err := os.ReadFile(sourcePath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("MACH_NUMBER= 0.8\n"))

		info, err := os.Stat(sourcePath)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
	})

	It("backs up the replaced file first", func() {
		result, err := manager.Restore(snapshot.ID, backup.RestoreOptions{BackupBeforeRestore: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.BackupSnapshot).NotTo(BeNil())
		Expect(result.BackupSnapshot.Trigger).To(Equal(backup.TriggerBeforeRestore))

		snapshots, err := manager.ListFor(sourcePath)
		Expect(err).NotTo(HaveOccurred())
		Expect(snapshots).To(HaveLen(2))
	})

	It("restores to another path", func() {
		target := filepath.Join(filepath.Dir(sourcePath), "restored", "case.cfg")

		result, err := manager.Restore(snapshot.ID, backup.RestoreOptions{TargetPath: target})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.BytesRestored).To(Equal(snapshot.Size))
		Expect(target).To(BeAnExistingFile())
	})

	It("detects corrupted snapshot data", func() {
		dataPath := filepath.Join(backupDir, backup.SnapshotsDir, snapshot.StoragePath)
		Expect(os.WriteFile(dataPath, []byte("tampered"), 0o600)).To(Succeed())

		err := manager.ValidateSnapshot(snapshot.ID)
		Expect(errors.Is(err, backup.ErrChecksumMismatch)).To(BeTrue())

		_, err = manager.Restore(snapshot.ID, backup.RestoreOptions{Validate: true})
		Expect(errors.Is(err, backup.ErrChecksumMismatch)).To(BeTrue())
	})

	It("fails for an unknown snapshot", func() {
		_, err := manager.Restore("missing", backup.RestoreOptions{})
		Expect(errors.Is(err, backup.ErrSnapshotNotFound)).To(BeTrue())
	})
})
