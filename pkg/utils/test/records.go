package testutils

import (
	"context"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/artomo/pkg/content"
	"github.com/papercomputeco/artomo/pkg/records"
)

// NewTestExhibition creates an exhibition at galleryID ending at end.
func NewTestExhibition(name string, galleryID uuid.UUID, end time.Time) *content.Exhibition {
	return &content.Exhibition{
		Base:        content.NewBase(),
		Name:        name,
		Area:        "Ginza",
		Description: "Paintings of " + name,
		StartDate:   end.AddDate(0, -1, 0),
		EndDate:     end,
		StartDateTS: float64(end.AddDate(0, -1, 0).Unix()),
		EndDateTS:   float64(end.Unix()),
		GalleryID:   galleryID,
	}
}

// NewTestGallery creates a gallery with the given name.
func NewTestGallery(name string) *content.Gallery {
	return &content.Gallery{
		Base:    content.NewBase(),
		Name:    name,
		Area:    "Ginza",
		Website: "https://example.com/" + name,
	}
}

// RecordStoreBehaviors registers the specs every records.Store must pass.
// newStore is called before each test; the store is closed after it.
func RecordStoreBehaviors(newStore func() records.Store) {
	var (
		ctx   context.Context
		store records.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = nil
		store = newStore()
	})

	AfterEach(func() {
		if store != nil {
			Expect(store.Close()).To(Succeed())
		}
	})

	It("returns ErrNotFound for missing records", func() {
		_, err := store.Find(ctx, content.CategoryGallery, records.Filter{Name: "nope"})
		Expect(err).To(MatchError(records.ErrNotFound))
	})

	It("round-trips galleries by name and id", func() {
		g := NewTestGallery("Taka Ishii")
		Expect(store.Insert(ctx, g)).To(Succeed())

		found, err := records.FindGallery(ctx, store, "Taka Ishii")
		Expect(err).NotTo(HaveOccurred())
		Expect(found.ID).To(Equal(g.ID))
		Expect(found.Website).To(Equal(g.Website))

		byID, err := records.GalleryByID(ctx, store, g.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(byID.Name).To(Equal("Taka Ishii"))
	})

	It("rejects duplicate gallery names", func() {
		Expect(store.Insert(ctx, NewTestGallery("SCAI"))).To(Succeed())
		Expect(store.Insert(ctx, NewTestGallery("SCAI"))).To(MatchError(records.ErrConflict))
	})

	It("keys exhibitions by name and gallery", func() {
		g1, g2 := uuid.New(), uuid.New()
		end := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

		Expect(store.Insert(ctx, NewTestExhibition("Echoes", g1, end))).To(Succeed())
		Expect(store.Insert(ctx, NewTestExhibition("Echoes", g2, end))).To(Succeed())
		Expect(store.Insert(ctx, NewTestExhibition("Echoes", g1, end))).To(MatchError(records.ErrConflict))

		found, err := records.FindExhibition(ctx, store, "Echoes", g2)
		Expect(err).NotTo(HaveOccurred())
		Expect(found.GalleryID).To(Equal(g2))
		Expect(found.EndDate.Equal(end)).To(BeTrue())
	})

	It("filters exhibitions that are still active", func() {
		g := uuid.New()
		now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		Expect(store.BulkInsert(ctx, []content.Record{
			NewTestExhibition("Past", g, now.AddDate(0, 0, -1)),
			NewTestExhibition("Today", g, now),
			NewTestExhibition("Future", g, now.AddDate(0, 1, 0)),
		})).To(Succeed())

		active, err := records.BulkFindExhibitions(ctx, store, records.Filter{ActiveAt: &now})
		Expect(err).NotTo(HaveOccurred())
		names := []string{}
		for _, e := range active {
			names = append(names, e.Name)
		}
		Expect(names).To(Equal([]string{"Future", "Today"}))
	})

	It("deletes one or many records", func() {
		Expect(store.BulkInsert(ctx, []content.Record{
			NewTestGallery("A"), NewTestGallery("B"), NewTestGallery("C"),
		})).To(Succeed())

		Expect(store.DeleteOne(ctx, content.CategoryGallery, records.Filter{Name: "A"})).To(Succeed())
		Expect(store.DeleteOne(ctx, content.CategoryGallery, records.Filter{Name: "A"})).To(MatchError(records.ErrNotFound))

		n, err := store.DeleteMany(ctx, content.CategoryGallery, records.Filter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(2)))

		all, err := store.BulkFind(ctx, content.CategoryGallery, records.Filter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(BeEmpty())
	})

	It("stores the other categories", func() {
		u := &content.User{Base: content.NewBase(), Name: "kei", Content: "likes prints"}
		Expect(store.Insert(ctx, u)).To(Succeed())

		found, err := store.Find(ctx, content.CategoryUser, records.Filter{ID: u.ID})
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(Equal(u))
	})
}
