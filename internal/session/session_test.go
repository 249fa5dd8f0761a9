package session

import (
	"context"
	"errors"
	"time"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vk/tamigo/internal/compiler"
	"github.com/vk/tamigo/internal/inmemorystore"
	"github.com/vk/tamigo/internal/savestore"
	"github.com/vk/tamigo/internal/testutil"
	"github.com/vk/tamigo/internal/vm"
)

const hallScript = `
	[start (Hall)]
		Welcome.
		...
		You carry [:gold:] gold.
		call ask
		done
		.
	> ask:
		+ Stay:
			stayed
		+ Leave:
			left
		.
	> lamp:
		A brass lamp.
		.
`

func compileHall() *compiler.Artifact {
	art, err := compiler.Compile(context.Background(),
		[]compiler.Source{{Name: "main.tami", Text: testutil.Unindent(hallScript)}},
		&compiler.Source{Name: "setup.tami", Text: "gold = 2"},
		compiler.Options{},
	)
	Expect(err).NotTo(HaveOccurred())
	return art
}

var _ = Describe("Session", func() {
	var (
		mockCtrl  *gomock.Controller
		mockStore *MockStore
		rec       *testutil.Recorder
		clock     time.Time
		sess      *Session
		ctx       context.Context
	)

	newSession := func(store savestore.Store, overrides map[string]int64) *Session {
		return New(compileHall(), store, Options{
			Machine:   vm.Options{Sink: rec},
			Overrides: overrides,
			Now:       func() time.Time { return clock },
		})
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		mockStore = NewMockStore(mockCtrl)
		rec = &testutil.Recorder{}
		clock = time.UnixMilli(1_700_000_000_000)
		ctx = context.Background()
		sess = newSession(mockStore, nil)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("new game", func() {
		It("should run the setup script and stop at the first pause", func() {
			Expect(sess.NewGame(ctx)).To(Succeed())

			Expect(rec.Shown()).To(Equal([]string{"Welcome."}))
			Expect(sess.Status()).To(Equal(vm.AwaitingPauseAck))
			Expect(sess.View().Title).To(Equal("Hall"))

			Expect(sess.Acknowledge(ctx)).To(Succeed())
			Expect(rec.Shown()).To(ContainElement("You carry 2 gold."))
			Expect(sess.Status()).To(Equal(vm.AwaitingMenuChoice))
		})

		It("should apply overrides after the setup script", func() {
			sess = newSession(mockStore, map[string]int64{"gold": 9})

			Expect(sess.NewGame(ctx)).To(Succeed())
			Expect(sess.Acknowledge(ctx)).To(Succeed())

			Expect(rec.Shown()).To(ContainElement("You carry 9 gold."))
		})

		It("should start over when called twice", func() {
			Expect(sess.NewGame(ctx)).To(Succeed())
			Expect(sess.Acknowledge(ctx)).To(Succeed())

			Expect(sess.NewGame(ctx)).To(Succeed())

			Expect(sess.Status()).To(Equal(vm.AwaitingPauseAck))
			Expect(sess.View().Menu).To(BeEmpty())
		})

		It("should play through a menu", func() {
			Expect(sess.NewGame(ctx)).To(Succeed())
			Expect(sess.Acknowledge(ctx)).To(Succeed())

			Expect(sess.Choose(ctx, 1)).To(Succeed())

			Expect(rec.Shown()).To(Equal([]string{"Welcome.", "You carry 2 gold.", "left", "done"}))
			Expect(sess.Status()).To(Equal(vm.Halted))
		})

		It("should run clicked actions and return to the pause", func() {
			Expect(sess.NewGame(ctx)).To(Succeed())

			found, err := sess.Act(ctx, "lamp")

			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(rec.Shown()).To(Equal([]string{"Welcome.", "A brass lamp."}))
			Expect(sess.Status()).To(Equal(vm.AwaitingPauseAck))
		})
	})

	Context("saving", func() {
		BeforeEach(func() {
			Expect(sess.NewGame(ctx)).To(Succeed())
		})

		It("should stamp slots with the clock", func() {
			var stored savestore.Slot
			mockStore.EXPECT().
				Put(gomock.Any(), gomock.Any()).
				Do(func(_ context.Context, slot savestore.Slot) { stored = slot }).
				Return(nil)

			slot, err := sess.Save(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(slot.Timestamp).To(Equal(clock.UnixMilli()))
			Expect(stored.Timestamp).To(Equal(slot.Timestamp))
			Expect(stored.Data).NotTo(BeEmpty())
		})

		It("should keep slot timestamps unique within one millisecond", func() {
			mockStore.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).Times(2)

			first, err := sess.Save(ctx)
			Expect(err).NotTo(HaveOccurred())
			second, err := sess.Save(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(second.Timestamp).To(Equal(first.Timestamp + 1))
		})

		It("should delete the replaced slot before writing the new one", func() {
			gomock.InOrder(
				mockStore.EXPECT().Delete(gomock.Any(), int64(42)).Return(nil),
				mockStore.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil),
			)

			_, err := sess.Replace(ctx, 42)

			Expect(err).NotTo(HaveOccurred())
		})

		It("should save even when the replaced slot is already gone", func() {
			mockStore.EXPECT().Delete(gomock.Any(), int64(42)).Return(savestore.ErrNotFound)
			mockStore.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil)

			_, err := sess.Replace(ctx, 42)

			Expect(err).NotTo(HaveOccurred())
		})

		It("should report store failures", func() {
			mockStore.EXPECT().Put(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

			_, err := sess.Save(ctx)

			Expect(err).To(MatchError(ContainSubstring("disk full")))
		})
	})

	Context("loading", func() {
		var saved savestore.Slot

		BeforeEach(func() {
			mockStore.EXPECT().
				Put(gomock.Any(), gomock.Any()).
				Do(func(_ context.Context, slot savestore.Slot) { saved = slot }).
				Return(nil)

			Expect(sess.NewGame(ctx)).To(Succeed())
			Expect(sess.Acknowledge(ctx)).To(Succeed())
			_, err := sess.Save(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should continue from the newest slot", func() {
			older := savestore.Slot{Timestamp: saved.Timestamp - 1000}
			mockStore.EXPECT().List(gomock.Any()).Return([]savestore.Slot{{Timestamp: saved.Timestamp}, older}, nil)
			mockStore.EXPECT().Get(gomock.Any(), saved.Timestamp).Return(saved, nil)

			fresh := newSession(mockStore, nil)
			rec.Reset()

			Expect(fresh.Continue(ctx)).To(Succeed())

			Expect(fresh.Status()).To(Equal(vm.AwaitingMenuChoice))
			Expect(fresh.View().Menu).To(HaveLen(2))
			Expect(rec.Names()).To(Equal([]string{"restored"}))

			Expect(fresh.Choose(ctx, 0)).To(Succeed())
			Expect(rec.Shown()).To(Equal([]string{"stayed", "done"}))
		})

		It("should report an empty store on continue", func() {
			mockStore.EXPECT().List(gomock.Any()).Return(nil, nil)

			err := newSession(mockStore, nil).Continue(ctx)

			Expect(errors.Is(err, savestore.ErrNotFound)).To(BeTrue())
		})

		It("should keep the current game when a slot is corrupt", func() {
			mockStore.EXPECT().Get(gomock.Any(), int64(7)).Return(savestore.Slot{Timestamp: 7, Data: []byte("{")}, nil)

			err := sess.Load(ctx, 7)

			Expect(err).To(MatchError(ContainSubstring("failed to load slot")))
			Expect(sess.Status()).To(Equal(vm.AwaitingMenuChoice))
		})
	})
})

var _ = Describe("Session with a real store", func() {
	It("should list, load and delete slots", func() {
		ctx := context.Background()
		store := inmemorystore.New()
		now := time.UnixMilli(1_700_000_000_000)
		sess := New(compileHall(), store, Options{Now: func() time.Time { return now }})
		Expect(sess.NewGame(ctx)).To(Succeed())

		first, err := sess.Save(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(sess.Acknowledge(ctx)).To(Succeed())
		now = now.Add(time.Minute)
		second, err := sess.Save(ctx)
		Expect(err).NotTo(HaveOccurred())

		slots, err := sess.Slots(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(slots).To(HaveLen(2))
		Expect(slots[0].Timestamp).To(Equal(second.Timestamp))

		Expect(sess.Load(ctx, first.Timestamp)).To(Succeed())
		Expect(sess.Status()).To(Equal(vm.AwaitingPauseAck))

		Expect(sess.Delete(ctx, first.Timestamp)).To(Succeed())
		Expect(sess.Load(ctx, first.Timestamp)).To(MatchError(savestore.ErrNotFound))
	})
})
