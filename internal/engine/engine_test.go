package engine

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"sanad/internal/admission"
	"sanad/internal/broadcast"
	"sanad/internal/domain"
	"sanad/internal/guard"
	"sanad/internal/importer"
	"sanad/internal/sessions"
	"sanad/internal/store"
	"sanad/internal/store/memory"
	"sanad/internal/transport"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingSender) SendText(_ context.Context, chatID, _ string, _ []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, chatID)
	return nil
}

func (r *recordingSender) SendFile(context.Context, string, transport.File, string) error {
	return nil
}

type EngineSuite struct {
	suite.Suite
	stores   store.Stores
	sessions *sessions.InMemoryStore
	sender   *recordingSender
	engine   *Engine
}

func (s *EngineSuite) SetupTest() {
	s.stores = memory.New()
	s.sessions = sessions.NewInMemoryStore()
	s.sender = &recordingSender{}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := guard.New("admin", "secret", s.stores.Assistants)
	v := admission.New(s.stores)
	c := importer.NewCommitter(s.stores)
	d := broadcast.New(s.stores.Subscribers, s.sender, logger)
	s.engine = New(s.stores, s.sessions, g, v, c, d, logger)
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) send(chatID, text string) []Reply {
	replies, err := s.engine.Handle(context.Background(), transport.Event{ChatID: chatID, Text: text})
	s.Require().NoError(err)
	return replies
}

func (s *EngineSuite) sendFile(chatID, name string, data []byte) []Reply {
	replies, err := s.engine.Handle(context.Background(), transport.Event{
		ChatID: chatID,
		File:   &transport.File{Name: name, Data: data},
	})
	s.Require().NoError(err)
	return replies
}

func (s *EngineSuite) state(chatID string) State {
	sess, err := s.sessions.Get(context.Background(), chatID)
	s.Require().NoError(err)
	return State(sess.State)
}

func (s *EngineSuite) scratch(chatID string) map[string]string {
	sess, err := s.sessions.Get(context.Background(), chatID)
	s.Require().NoError(err)
	return sess.Scratch
}

func allText(replies []Reply) string {
	var b strings.Builder
	for _, r := range replies {
		b.WriteString(r.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func (s *EngineSuite) register(chatID, name, passport string) {
	s.send(chatID, labelRegister)
	s.send(chatID, name)
	s.send(chatID, passport)
	s.send(chatID, "0912000000")
	s.send(chatID, "District 1")
	s.send(chatID, "رب أسرة")
	s.send(chatID, "3")
}

func (s *EngineSuite) loginRoot(chatID string) {
	s.send(chatID, labelLogin)
	s.send(chatID, "admin")
	s.send(chatID, "secret")
	s.Require().Equal(StateAdminMenu, s.state(chatID))
}

func (s *EngineSuite) loginAssistant(chatID, user, pass string) {
	s.Require().NoError(s.stores.Assistants.Create(context.Background(), domain.Assistant{Username: user, Password: pass}))
	s.send(chatID, labelLogin)
	s.send(chatID, user)
	s.send(chatID, pass)
	s.Require().Equal(StateAssistantMenu, s.state(chatID))
}

func (s *EngineSuite) TestRegistrationFlow() {
	s.Run("full walk persists the member", func() {
		s.register("c1", "Omar Said", "P1")
		s.Equal(StateIdle, s.state("c1"))

		m, err := s.stores.Members.FindByPassport(context.Background(), "P1")
		s.Require().NoError(err)
		s.Equal("Omar Said", m.Name)
		s.Equal(3, m.FamilySize)
		s.Empty(s.scratch("c1"))
	})

	s.Run("existing passport short-circuits to idle", func() {
		s.send("c2", labelRegister)
		s.send("c2", "Sara")
		replies := s.send("c2", "P1")
		s.Contains(allText(replies), msgAlreadyMember)
		s.Equal(StateIdle, s.state("c2"))

		n, err := s.stores.Members.Count(context.Background())
		s.Require().NoError(err)
		s.Equal(1, n)
	})

	s.Run("family size re-prompts without advancing", func() {
		s.send("c3", labelRegister)
		s.send("c3", "Ali")
		s.send("c3", "P2")
		s.send("c3", "0911")
		s.send("c3", "District 2")
		s.send("c3", "طالب")

		replies := s.send("c3", "x")
		s.Contains(allText(replies), msgFamilyNotNum)
		s.Equal(StateAskFamilySize, s.state("c3"))

		replies = s.send("c3", "0")
		s.Contains(allText(replies), msgFamilyTooLow)
		s.Equal(StateAskFamilySize, s.state("c3"))

		s.send("c3", "2")
		s.Equal(StateIdle, s.state("c3"))
	})
}

func (s *EngineSuite) TestSentinels() {
	s.Run("back re-enters previous prompt keeping scratch", func() {
		s.send("b1", labelRegister)
		s.send("b1", "Omar")
		s.send("b1", "P5")
		s.Equal(StateAskPhone, s.state("b1"))

		replies := s.send("b1", labelBack)
		s.Contains(allText(replies), msgAskPassport)
		s.Equal(StateAskPassport, s.state("b1"))
		s.Equal("Omar", s.scratch("b1")["name"])
		s.Equal("P5", s.scratch("b1")["passport"])
	})

	s.Run("cancel discards scratch and returns to idle", func() {
		s.send("b2", labelRegister)
		s.send("b2", "Omar")
		s.send("b2", "P6")

		replies := s.send("b2", labelCancel)
		s.Contains(allText(replies), msgCancelled)
		s.Equal(StateIdle, s.state("b2"))
		s.Empty(s.scratch("b2"))
	})

	s.Run("english sentinel spellings work", func() {
		s.send("b3", labelRegister)
		s.send("b3", "Omar")
		s.send("b3", "back")
		s.Equal(StateAskName, s.state("b3"))
		s.send("b3", "cancel")
		s.Equal(StateIdle, s.state("b3"))
	})
}

func (s *EngineSuite) TestServiceRequestFlow() {
	ctx := context.Background()
	_, err := admission.New(s.stores).CreateService(ctx, "food basket")
	s.Require().NoError(err)
	s.register("m1", "Omar", "P1")

	s.Run("unlisted service re-prompts", func() {
		s.send("r1", labelServices)
		replies := s.send("r1", "dental")
		s.Contains(allText(replies), msgServiceNotListed)
		s.Equal(StateServiceSelect, s.state("r1"))
	})

	s.Run("unregistered passport aborts to idle", func() {
		s.send("r2", labelServices)
		s.send("r2", "food basket")
		replies := s.send("r2", "P404")
		s.Contains(allText(replies), msgRegisterFirst)
		s.Equal(StateIdle, s.state("r2"))
		s.Empty(s.scratch("r2"))
	})

	s.Run("request is created with requester snapshot", func() {
		s.send("r3", labelServices)
		s.send("r3", "food basket")
		replies := s.send("r3", "P1")
		s.Contains(allText(replies), "✅")

		requests, err := s.stores.Requests.List(ctx)
		s.Require().NoError(err)
		s.Require().Len(requests, 1)
		s.Equal("Omar", requests[0].Requester)
	})

	s.Run("duplicate pair aborts with notice", func() {
		s.send("r4", labelServices)
		s.send("r4", "food basket")
		replies := s.send("r4", "P1")
		s.Contains(allText(replies), msgDuplicateRequest)
		s.Equal(StateIdle, s.state("r4"))
	})
}

func (s *EngineSuite) TestLoginAndPermissions() {
	s.Run("root login lands in admin menu", func() {
		s.loginRoot("a1")
	})

	s.Run("bad credentials return to idle", func() {
		s.send("a2", labelLogin)
		s.send("a2", "admin")
		replies := s.send("a2", "wrong")
		s.Contains(allText(replies), msgLoginBad)
		s.Equal(StateIdle, s.state("a2"))
	})

	s.Run("assistant denied root states", func() {
		s.loginAssistant("a3", "helper", "pw")

		// Force the session into a root-only state to simulate stale state.
		sess, err := s.sessions.Get(context.Background(), "a3")
		s.Require().NoError(err)
		sess.State = string(StateAdminMenu)
		s.Require().NoError(s.sessions.Put(context.Background(), sess))

		replies := s.send("a3", labelStats)
		s.Contains(allText(replies), msgNoPerms)
		s.Equal(StateIdle, s.state("a3"))
	})

	s.Run("deleted assistant is locked out on next action", func() {
		s.loginAssistant("a4", "temp", "pw")
		s.Require().NoError(s.stores.Assistants.Delete(context.Background(), "temp"))

		replies := s.send("a4", labelMyReports)
		s.Contains(allText(replies), msgNoPerms)
		s.Equal(StateIdle, s.state("a4"))
	})

	s.Run("logout clears identity", func() {
		s.loginRoot("a5")
		replies := s.send("a5", labelLogout)
		s.Contains(allText(replies), msgLoggedOut)
		s.Equal(StateIdle, s.state("a5"))

		sess, err := s.sessions.Get(context.Background(), "a5")
		s.Require().NoError(err)
		s.Equal(domain.RoleNone, sess.Role)
	})
}

func (s *EngineSuite) TestDeliveryFlow() {
	s.register("m1", "Omar", "P1")
	s.loginAssistant("w1", "helper", "pw")

	s.Run("first delivery confirms without warning", func() {
		s.send("w1", labelRecordDelivery)
		replies := s.send("w1", "P1")
		s.Contains(allText(replies), "تم العثور على العضو")
		s.NotContains(allText(replies), "تحذير")

		replies = s.send("w1", confirmDelivery)
		s.Contains(allText(replies), "✅ تم تسجيل التسليم بنجاح.")

		n, err := s.stores.Deliveries.Count(context.Background())
		s.Require().NoError(err)
		s.Equal(1, n)
	})

	s.Run("second delivery warns with prior supervisor", func() {
		s.send("w1", labelRecordDelivery)
		replies := s.send("w1", "P1")
		s.Contains(allText(replies), "تحذير")
		s.Contains(allText(replies), "helper")
	})

	s.Run("anything but the exact affirmative cancels", func() {
		replies := s.send("w1", "maybe")
		s.Contains(allText(replies), msgCancelled)

		n, err := s.stores.Deliveries.Count(context.Background())
		s.Require().NoError(err)
		s.Equal(1, n)
	})

	s.Run("unknown passport re-prompts", func() {
		s.send("w1", labelRecordDelivery)
		replies := s.send("w1", "P404")
		s.Contains(allText(replies), msgRegisterFirst)
		s.Equal(StateRecordDeliveryPassport, s.state("w1"))
	})
}

func (s *EngineSuite) TestDestructiveConfirmations() {
	s.register("m1", "Omar", "P1")
	s.loginRoot("adm")

	s.Run("wrong affirmative cancels the wipe", func() {
		s.send("adm", labelAccounts)
		s.send("adm", labelMembersData)
		s.send("adm", labelWipeData)
		s.Equal(StateConfirmWipeMembers, s.state("adm"))

		replies := s.send("adm", "نعم")
		s.Contains(allText(replies), msgCancelled)

		n, err := s.stores.Members.Count(context.Background())
		s.Require().NoError(err)
		s.Equal(1, n)
	})

	s.Run("exact affirmative wipes", func() {
		s.send("adm", labelWipeData)
		replies := s.send("adm", confirmWipeMembers)
		s.Contains(allText(replies), "✅")

		n, err := s.stores.Members.Count(context.Background())
		s.Require().NoError(err)
		s.Zero(n)
	})
}

func (s *EngineSuite) TestImportFlow() {
	s.loginRoot("adm")
	s.send("adm", labelAccounts)
	s.send("adm", labelMembersData)
	s.send("adm", labelImportData)
	s.Equal(StateAwaitMemberImport, s.state("adm"))

	csv := []byte("name,passport,phone,address,role,family_members\n" +
		"A,P1,055,Street 1,father,2\n" +
		",P2,055,Street 2,mother,x\n" +
		"B,P3,056,Street 3,mother,1\n")

	s.Run("upload shows capped summary and asks to confirm", func() {
		replies := s.sendFile("adm", "members.csv", csv)
		text := allText(replies)
		s.Contains(text, "3 rows read, 2 accepted, 1 rejected")
		s.Contains(text, "missing name")
		s.Equal(StateConfirmMemberImport, s.state("adm"))
	})

	s.Run("commit applies only the valid rows", func() {
		replies := s.send("adm", confirmImportCommit)
		s.Contains(allText(replies), "2 inserted, 0 updated, 0 failed")
		s.Equal(StateMembersMenu, s.state("adm"))

		n, err := s.stores.Members.Count(context.Background())
		s.Require().NoError(err)
		s.Equal(2, n)
	})

	s.Run("cancelling a pending import commits nothing", func() {
		s.send("adm", labelImportData)
		s.sendFile("adm", "members.csv", []byte("name,passport,phone,address,role,family_members\nC,P9,1,a,r,1\n"))
		s.send("adm", labelCancel)

		_, err := s.stores.Members.FindByPassport(context.Background(), "P9")
		s.Require().Error(err)
	})
}

func (s *EngineSuite) TestServiceAdministration() {
	s.loginRoot("adm")
	s.send("adm", labelServicesAdm)
	s.Equal(StateServicesMenu, s.state("adm"))

	s.Run("add service", func() {
		s.send("adm", labelAddService)
		replies := s.send("adm", "food basket")
		s.Contains(allText(replies), "✅ تم إضافة خدمة food basket بنجاح.")
	})

	s.Run("duplicate service re-prompts", func() {
		s.send("adm", labelAddService)
		replies := s.send("adm", "food basket")
		s.Contains(allText(replies), "موجودة مسبقاً")
		s.Equal(StateAddService, s.state("adm"))
		s.send("adm", labelCancel)
	})

	s.Run("deleting a service cascades to its requests", func() {
		ctx := context.Background()
		s.register("m9", "Omar", "P1")
		s.send("m9", labelServices)
		s.send("m9", "food basket")
		s.send("m9", "P1")

		n, err := s.stores.Requests.Count(ctx)
		s.Require().NoError(err)
		s.Equal(1, n)

		s.send("adm", labelServicesAdm)
		s.send("adm", labelDeleteService)
		s.send("adm", "food basket")

		n, err = s.stores.Requests.Count(ctx)
		s.Require().NoError(err)
		s.Zero(n)
	})
}

func (s *EngineSuite) TestBroadcast() {
	// Every chat that ever sent an event is a subscriber.
	s.send("u1", "hi")
	s.send("u2", "hi")
	s.send("u3", "hi")

	s.loginRoot("adm")
	s.send("adm", labelBroadcast)
	replies := s.send("adm", "meeting at 6pm")

	text := allText(replies)
	s.Contains(text, "نجح: 4")
	s.Contains(text, "فشل: 0")
	s.Equal(StateAdminMenu, s.state("adm"))
	s.Len(s.sender.sent, 4)
}

func (s *EngineSuite) TestUnrecognizedInputStaysPut() {
	s.loginRoot("adm")
	s.send("adm", "???")
	s.Equal(StateAdminMenu, s.state("adm"))

	s.send("x1", "???")
	s.Equal(StateIdle, s.state("x1"))
}
