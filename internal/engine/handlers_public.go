package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"sanad/internal/domain"
	"sanad/internal/sessions"
	"sanad/internal/transport"
	domainerrors "sanad/pkg/domain-errors"
)

func (e *Engine) handleIdle(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	switch strings.TrimSpace(ev.Text) {
	case labelRegister:
		return e.enter(ctx, sess, StateAskName)
	case labelServices:
		count, err := e.stores.Services.Count(ctx)
		if err != nil {
			return nil, StateIdle, fmt.Errorf("count services: %w", err)
		}
		if count == 0 {
			return e.stay(ctx, sess, StateIdle, msgNoServices)
		}
		return e.enter(ctx, sess, StateServiceSelect)
	case labelAbout:
		return []Reply{{Text: msgAbout, Menu: e.menuFor(sess)}}, StateIdle, nil
	case labelContact:
		return e.enter(ctx, sess, StateContactMenu)
	case labelLogin:
		return e.enter(ctx, sess, StateLoginUser)
	default:
		return []Reply{{Text: msgWelcome, Menu: e.menuFor(sess)}}, StateIdle, nil
	}
}

func (e *Engine) handleContactMenu(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	var text string
	switch strings.TrimSpace(ev.Text) {
	case labelContactPhone:
		text = msgContactPhone
	case labelContactEmail:
		text = msgContactEmail
	case labelContactWhatsapp:
		text = "📱 واتساب: https://wa.me/00201000098572"
	case labelContactFacebook:
		text = "📘 فيسبوك: https://facebook.com/sanad.community"
	default:
		return e.stay(ctx, sess, StateContactMenu, msgNotTracked)
	}
	return e.stay(ctx, sess, StateContactMenu, text)
}

// Registration flow. Each step stores its answer in scratch and advances;
// "back" re-enters the previous prompt with scratch intact, so nothing is
// re-typed.

func (e *Engine) handleAskName(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	name := strings.TrimSpace(ev.Text)
	if name == "" {
		return e.stay(ctx, sess, StateAskName, "")
	}
	sess.Scratch["name"] = name
	return e.enter(ctx, sess, StateAskPassport)
}

func (e *Engine) handleAskPassport(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	passport := strings.TrimSpace(ev.Text)
	if passport == "" {
		return e.stay(ctx, sess, StateAskPassport, "")
	}

	taken, err := e.admission.PassportTaken(ctx, passport)
	if err != nil {
		return nil, StateAskPassport, err
	}
	if taken {
		return e.toIdle(sess, msgAlreadyMember)
	}
	sess.Scratch["passport"] = passport
	return e.enter(ctx, sess, StateAskPhone)
}

func (e *Engine) handleAskPhone(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	phone := strings.TrimSpace(ev.Text)
	if phone == "" {
		return e.stay(ctx, sess, StateAskPhone, "")
	}
	sess.Scratch["phone"] = phone
	return e.enter(ctx, sess, StateAskAddress)
}

func (e *Engine) handleAskAddress(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	address := strings.TrimSpace(ev.Text)
	if address == "" {
		return e.stay(ctx, sess, StateAskAddress, "")
	}
	sess.Scratch["address"] = address
	return e.enter(ctx, sess, StateAskRole)
}

func (e *Engine) handleAskRole(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	role := strings.TrimSpace(ev.Text)
	if role == "" {
		return e.stay(ctx, sess, StateAskRole, "")
	}
	sess.Scratch["role"] = role
	return e.enter(ctx, sess, StateAskFamilySize)
}

func (e *Engine) handleAskFamilySize(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	raw := strings.TrimSpace(ev.Text)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return e.stay(ctx, sess, StateAskFamilySize, msgFamilyNotNum)
	}
	if n < 1 {
		return e.stay(ctx, sess, StateAskFamilySize, msgFamilyTooLow)
	}

	member := domain.Member{
		Name:       sess.Scratch["name"],
		Passport:   sess.Scratch["passport"],
		Phone:      sess.Scratch["phone"],
		Address:    sess.Scratch["address"],
		RoleLabel:  sess.Scratch["role"],
		FamilySize: n,
	}
	created, err := e.admission.RegisterMember(ctx, member)
	switch {
	case domainerrors.HasCode(err, domainerrors.CodeConflict):
		return e.toIdle(sess, msgAlreadyMember)
	case domainerrors.HasCode(err, domainerrors.CodeValidation):
		return e.toIdle(sess, msgWentWrong)
	case err != nil:
		return nil, StateAskFamilySize, err
	}

	summary := fmt.Sprintf("%s\nالاسم: %s\nالجواز: %s\nعدد أفراد الأسرة: %d",
		msgRegistered, created.Name, created.Passport, created.FamilySize)
	return e.toIdle(sess, summary)
}

// Service-request flow.

func (e *Engine) handleServiceSelect(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	name := strings.TrimSpace(ev.Text)
	services, err := e.stores.Services.List(ctx)
	if err != nil {
		return nil, StateServiceSelect, fmt.Errorf("list services: %w", err)
	}
	for _, svc := range services {
		if svc.Name == name {
			sess.Scratch["service"] = name
			return e.enter(ctx, sess, StateServicePassport)
		}
	}
	return e.stay(ctx, sess, StateServiceSelect, msgServiceNotListed)
}

func (e *Engine) handleServicePassport(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	passport := strings.TrimSpace(ev.Text)
	if passport == "" {
		return e.stay(ctx, sess, StateServicePassport, "")
	}

	registered, err := e.admission.PassportTaken(ctx, passport)
	if err != nil {
		return nil, StateServicePassport, err
	}
	if !registered {
		return e.toIdle(sess, msgRegisterFirst)
	}

	req, err := e.admission.SubmitRequest(ctx, passport, sess.Scratch["service"])
	switch {
	case domainerrors.HasCode(err, domainerrors.CodeConflict):
		return e.toIdle(sess, msgDuplicateRequest)
	case domainerrors.HasCode(err, domainerrors.CodeNotFound):
		return e.toIdle(sess, msgNoServices)
	case err != nil:
		return nil, StateServicePassport, err
	}

	return e.toIdle(sess, fmt.Sprintf("✅ تم تقديم طلب %s بنجاح.", req.ServiceName))
}

// Login flow. The root credential is checked before the assistant table;
// first match wins.

func (e *Engine) handleLoginUser(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	username := strings.TrimSpace(ev.Text)
	if username == "" {
		return e.stay(ctx, sess, StateLoginUser, "")
	}
	sess.Scratch["login_user"] = username
	return e.enter(ctx, sess, StateLoginPass)
}

func (e *Engine) handleLoginPass(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	password := strings.TrimSpace(ev.Text)
	username := sess.Scratch["login_user"]

	role, err := e.guard.Login(ctx, username, password)
	if domainerrors.HasCode(err, domainerrors.CodeForbidden) {
		sess.ResetFlow(string(StateIdle))
		return []Reply{{Text: msgLoginBad, Menu: e.mainMenu()}}, StateIdle, nil
	}
	if err != nil {
		return nil, StateLoginPass, err
	}

	sess.Role = role
	sess.Username = username
	sess.Password = password
	sess.Scratch = map[string]string{}

	if role == domain.RoleRoot {
		return []Reply{{Text: msgLoginRoot, Menu: e.adminMenu()}}, StateAdminMenu, nil
	}
	return []Reply{{Text: msgLoginAssist, Menu: e.assistantMenu()}}, StateAssistantMenu, nil
}
