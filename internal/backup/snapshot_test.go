package backup_test

import (
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/su2gui/su2cfg/internal/backup"
)

var _ = Describe("SnapshotIndex", func() {
	var (
		index *backup.SnapshotIndex
		base  time.Time
	)

	BeforeEach(func() {
		index = backup.NewSnapshotIndex()
		base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		index.Add(backup.Snapshot{ID: "b", SourcePath: "/w/a.cfg", Timestamp: base.Add(time.Hour), Checksum: "h2"})
		index.Add(backup.Snapshot{ID: "a", SourcePath: "/w/a.cfg", Timestamp: base, Checksum: "h1"})
		index.Add(backup.Snapshot{ID: "c", SourcePath: "/w/b.cfg", Timestamp: base.Add(30 * time.Minute), Checksum: "h1"})
	})

	It("lists snapshots oldest first", func() {
		ids := []string{}
		for _, s := range index.List() {
			ids = append(ids, s.ID)
		}

		Expect(ids).To(Equal([]string{"a", "c", "b"}))
	})

	It("lists the snapshots of one source", func() {
		snapshots := index.ListFor("/w/a.cfg")
		Expect(snapshots).To(HaveLen(2))
		Expect(snapshots[0].ID).To(Equal("a"))
	})

	It("finds content per source", func() {
		found, ok := index.FindByHash("/w/b.cfg", "h1")
		Expect(ok).To(BeTrue())
		Expect(found.ID).To(Equal("c"))

		_, ok = index.FindByHash("/w/b.cfg", "h2")
		Expect(ok).To(BeFalse())
	})

	It("gets and deletes by ID", func() {
		s, err := index.Get("a")
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Checksum).To(Equal("h1"))

		Expect(index.Delete("a")).To(Succeed())

		_, err = index.Get("a")
		Expect(errors.Is(err, backup.ErrSnapshotNotFound)).To(BeTrue())
		Expect(errors.Is(index.Delete("a"), backup.ErrSnapshotNotFound)).To(BeTrue())
	})

	It("generates stable IDs and hashes", func() {
		hash := backup.ComputeContentHash([]byte("x"))
		Expect(hash).To(HaveLen(64))
		Expect(backup.GenerateSnapshotID(base, hash)).To(HaveLen(16))
		Expect(backup.GenerateSnapshotID(base, hash)).To(Equal(backup.GenerateSnapshotID(base, hash)))
		Expect(backup.GenerateSnapshotID(base.Add(time.Nanosecond), hash)).
			NotTo(Equal(backup.GenerateSnapshotID(base, hash)))
	})
})
