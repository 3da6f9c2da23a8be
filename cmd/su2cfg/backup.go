package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hako/durafmt"
	"github.com/spf13/cobra"

	"github.com/su2gui/su2cfg/internal/backup"
	"github.com/su2gui/su2cfg/internal/report"
)

// Backup command flags.
var (
	restoreTarget string
	restoreForce  bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage backups of overwritten files",
	Long: `Manage backups of files su2cfg overwrote.

Configuration files, documents, schemas and settings files are snapshotted
before su2cfg replaces them.

Subcommands:
  list     List snapshots
  restore  Restore a snapshot
  prune    Remove snapshots according to the retention settings`,
}

var backupListCmd = &cobra.Command{
	Use:   "list [FILE]",
	Short: "List snapshots",
	Long: `List snapshots, oldest first.

Examples:
  su2cfg backup list              # Every snapshot
  su2cfg backup list case.cfg     # Snapshots of one file`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackupList,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore SNAPSHOT_ID",
	Short: "Restore a snapshot",
	Long: `Restore a file from a snapshot. A unique prefix of the ID is enough.

The current file is snapshotted before it is replaced unless --force is set.

Examples:
  su2cfg backup restore 3f2a9c1b0d4e
  su2cfg backup restore 3f2a --to /tmp/case.cfg
  su2cfg backup restore 3f2a --force`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupRestore,
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old snapshots",
	Long: `Remove snapshots beyond backup.max_backups per file or older than
backup.max_age. The newest snapshot of each file is always kept.

Examples:
  su2cfg backup prune`,
	Args: cobra.NoArgs,
	RunE: runBackupPrune,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupPruneCmd)

	backupRestoreCmd.Flags().
		StringVar(&restoreTarget, "to", "", "Restore to this path instead of the original")
	backupRestoreCmd.Flags().
		BoolVar(&restoreForce, "force", false, "Skip the safety backup before restore")
}

// requireBackups returns the session's backup manager or ErrBackupDisabled.
func (s *session) requireBackups() (*backup.Manager, error) {
	if s.backups == nil {
		return nil, errors.Wrap(backup.ErrBackupDisabled, "enable it with backup.enabled = true")
	}

	return s.backups, nil
}

// resolveSnapshot finds the snapshot whose ID starts with prefix.
func resolveSnapshot(mgr *backup.Manager, prefix string) (string, error) {
	snapshots, err := mgr.List()
	if err != nil {
		return "", err
	}

	var matches []string

	for _, s := range snapshots {
		if s.ID == prefix {
			return s.ID, nil
		}

		if strings.HasPrefix(s.ID, prefix) {
			matches = append(matches, s.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", errors.Wrapf(backup.ErrSnapshotNotFound, "ID: %s", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", errors.Newf("snapshot ID %q is ambiguous (%d matches)", prefix, len(matches))
	}
}

func runBackupList(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	mgr, err := s.requireBackups()
	if err != nil {
		return err
	}

	var snapshots []backup.Snapshot

	if len(args) == 1 {
		snapshots, err = mgr.ListFor(args[0])
	} else {
		snapshots, err = mgr.List()
	}

	if err != nil {
		return errors.Wrap(err, "failed to list snapshots")
	}

	fmt.Println(report.RenderSnapshots(snapshots, time.Now(), s.theme))

	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	mgr, err := s.requireBackups()
	if err != nil {
		return err
	}

	id, err := resolveSnapshot(mgr, args[0])
	if err != nil {
		return err
	}

	result, err := mgr.Restore(id, backup.RestoreOptions{
		TargetPath:          restoreTarget,
		BackupBeforeRestore: !restoreForce,
		Validate:            true,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Restored %s to %s\n", report.ShortID(id), result.RestoredPath)

	if result.BackupSnapshot != nil {
		fmt.Fprintf(os.Stderr, "Previous content saved as %s\n", report.ShortID(result.BackupSnapshot.ID))
	}

	return nil
}

// ageDisplayUnits limits retention ages to the two largest units.
const ageDisplayUnits = 2

func formatAge(d time.Duration) string {
	return durafmt.Parse(d).LimitFirstN(ageDisplayUnits).String()
}

func runBackupPrune(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	mgr, err := s.requireBackups()
	if err != nil {
		return err
	}

	policy, err := backup.PolicyFromConfig(s.cfg.GetBackup())
	if err != nil {
		return err
	}

	result, err := mgr.ApplyRetention(policy)
	if err != nil {
		return errors.Wrap(err, "failed to prune snapshots")
	}

	fmt.Fprintf(os.Stderr, "Removed %d snapshot(s)\n", len(result.RemovedSnapshots))
	fmt.Fprintf(os.Stderr, "Keeping at most %d per file, none older than %s\n",
		s.cfg.GetBackup().GetMaxBackups(),
		formatAge(s.cfg.GetBackup().GetMaxAge().ToDuration()),
	)

	return nil
}
