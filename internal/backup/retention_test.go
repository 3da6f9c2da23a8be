package backup_test

import (
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/su2gui/su2cfg/internal/backup"
	"github.com/su2gui/su2cfg/pkg/config"
)

var _ = Describe("RetentionPolicy", func() {
	var (
		now      time.Time
		siblings []backup.Snapshot
	)

	BeforeEach(func() {
		now = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		siblings = []backup.Snapshot{
			{ID: "old", Timestamp: now.Add(-72 * time.Hour)},
			{ID: "mid", Timestamp: now.Add(-48 * time.Hour)},
			{ID: "new", Timestamp: now.Add(-24 * time.Hour)},
		}
	})

	retained := func(policy backup.RetentionPolicy) []string {
		ctx := backup.RetentionContext{Siblings: siblings, Now: now}

		var ids []string

		for _, s := range siblings {
			if policy.ShouldRetain(s, ctx) {
				ids = append(ids, s.ID)
			}
		}

		return ids
	}

	Describe("CountRetentionPolicy", func() {
		It("keeps the newest snapshots", func() {
			policy, err := backup.NewCountRetentionPolicy(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(retained(policy)).To(Equal([]string{"mid", "new"}))
		})

		It("rejects non-positive limits", func() {
			_, err := backup.NewCountRetentionPolicy(0)
			Expect(errors.Is(err, backup.ErrInvalidMaxBackups)).To(BeTrue())
		})
	})

	Describe("AgeRetentionPolicy", func() {
		It("removes snapshots older than the limit", func() {
			policy, err := backup.NewAgeRetentionPolicy(50 * time.Hour)
			Expect(err).NotTo(HaveOccurred())
			Expect(retained(policy)).To(Equal([]string{"mid", "new"}))
		})

		It("always keeps the newest snapshot", func() {
			policy, err := backup.NewAgeRetentionPolicy(time.Hour)
			Expect(err).NotTo(HaveOccurred())
			Expect(retained(policy)).To(Equal([]string{"new"}))
		})

		It("rejects non-positive ages", func() {
			_, err := backup.NewAgeRetentionPolicy(0)
			Expect(errors.Is(err, backup.ErrInvalidMaxAge)).To(BeTrue())
		})
	})

	Describe("CompositeRetentionPolicy", func() {
		It("retains only what every policy retains", func() {
			count, _ := backup.NewCountRetentionPolicy(2)
			age, _ := backup.NewAgeRetentionPolicy(30 * time.Hour)

			Expect(retained(backup.NewCompositeRetentionPolicy(count, age))).To(Equal([]string{"new"}))
		})
	})

	Describe("PolicyFromConfig", func() {
		It("uses defaults for empty settings", func() {
			policy, err := backup.PolicyFromConfig(&config.BackupConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(retained(policy)).To(Equal([]string{"old", "mid", "new"}))
		})

		It("fails for an invalid limit", func() {
			n := -1
			_, err := backup.PolicyFromConfig(&config.BackupConfig{MaxBackups: &n})
			Expect(errors.Is(err, backup.ErrInvalidMaxBackups)).To(BeTrue())
		})
	})
})
