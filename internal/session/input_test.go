package session

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vk/tamigo/internal/inmemorystore"
	"github.com/vk/tamigo/internal/testutil"
	"github.com/vk/tamigo/internal/vm"
)

var _ = Describe("DecodeInput", func() {
	DescribeTable("valid inputs",
		func(data string, want Input) {
			in, err := DecodeInput([]byte(data))

			Expect(err).NotTo(HaveOccurred())
			Expect(in).To(Equal(want))
		},
		Entry("new game", `{"type":"new_game"}`, Input{Type: InputNewGame}),
		Entry("choose", `{"type":"choose","index":1}`, Input{Type: InputChoose, Index: 1}),
		Entry("act", `{"type":"act","label":"lamp"}`, Input{Type: InputAct, Label: "lamp"}),
		Entry("combine", `{"type":"combine","first":"key","second":"door"}`, Input{Type: InputCombine, First: "key", Second: "door"}),
		Entry("set action", `{"type":"set_action","action":"apply"}`, Input{Type: InputSetAction, Action: "apply"}),
		Entry("clear selection", `{"type":"select"}`, Input{Type: InputSelect}),
		Entry("load", `{"type":"load","slot":1700000000000}`, Input{Type: InputLoad, Slot: 1700000000000}),
	)

	DescribeTable("invalid inputs",
		func(data, errPart string) {
			_, err := DecodeInput([]byte(data))

			Expect(err).To(MatchError(ContainSubstring(errPart)))
		},
		Entry("not json", `{`, "invalid input"),
		Entry("no type", `{}`, "no type"),
		Entry("unknown type", `{"type":"dance"}`, `unknown input type "dance"`),
		Entry("act without label", `{"type":"act"}`, "requires a label"),
		Entry("combine with one item", `{"type":"combine","first":"key"}`, "requires first and second"),
		Entry("negative index", `{"type":"choose","index":-1}`, "non-negative index"),
		Entry("unknown action", `{"type":"set_action","action":"smell"}`, `unknown action "smell"`),
		Entry("load without slot", `{"type":"load"}`, "requires a slot"),
	)
})

var _ = Describe("Apply", func() {
	var (
		ctx  context.Context
		rec  *testutil.Recorder
		sess *Session
	)

	apply := func(data string) (any, error) {
		in, err := DecodeInput([]byte(data))
		Expect(err).NotTo(HaveOccurred())
		return sess.Apply(ctx, in)
	}

	BeforeEach(func() {
		ctx = context.Background()
		rec = &testutil.Recorder{}
		now := time.UnixMilli(1_700_000_000_000)
		sess = New(compileHall(), inmemorystore.New(), Options{
			Machine: vm.Options{Sink: rec},
			Now:     func() time.Time { return now },
		})
	})

	It("should drive a game from JSON inputs", func() {
		_, err := apply(`{"type":"new_game"}`)
		Expect(err).NotTo(HaveOccurred())
		_, err = apply(`{"type":"acknowledge"}`)
		Expect(err).NotTo(HaveOccurred())
		_, err = apply(`{"type":"choose","index":0}`)
		Expect(err).NotTo(HaveOccurred())

		Expect(rec.Shown()).To(Equal([]string{"Welcome.", "You carry 2 gold.", "stayed", "done"}))
	})

	It("should return slot information for save and slots", func() {
		_, err := apply(`{"type":"new_game"}`)
		Expect(err).NotTo(HaveOccurred())

		saved, err := apply(`{"type":"save"}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(saved).To(Equal(SlotInfo{Slot: 1_700_000_000_000, Name: time.UnixMilli(1_700_000_000_000).Format("2006/01/02 15:04:05")}))

		slots, err := apply(`{"type":"slots"}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(slots).To(Equal([]SlotInfo{saved.(SlotInfo)}))
	})

	It("should switch the action mode", func() {
		_, err := apply(`{"type":"set_action","action":"interact"}`)

		Expect(err).NotTo(HaveOccurred())
		Expect(sess.View().Action).To(Equal(vm.Interact))
	})

	It("should reject unknown actions and items", func() {
		_, err := apply(`{"type":"new_game"}`)
		Expect(err).NotTo(HaveOccurred())

		_, err = apply(`{"type":"act","label":"window"}`)
		Expect(err).To(MatchError(ContainSubstring(`unknown action "window"`)))

		_, err = apply(`{"type":"select","item":"sword"}`)
		Expect(err).To(MatchError(ContainSubstring("not in the inventory")))
	})
})
