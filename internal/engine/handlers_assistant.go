package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sanad/internal/importer"
	"sanad/internal/sessions"
	"sanad/internal/transport"
	"sanad/pkg/platform/sentinel"
)

func (e *Engine) handleAssistantMenu(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	switch strings.TrimSpace(ev.Text) {
	case labelRecordDelivery:
		return e.enter(ctx, sess, StateRecordDeliveryPassport)
	case labelMyReports:
		return e.enter(ctx, sess, StateAssistantReportMenu)
	case labelLogout:
		sess.Logout(string(StateIdle))
		return []Reply{{Text: msgLoggedOut, Menu: e.mainMenu()}}, StateIdle, nil
	default:
		return e.stay(ctx, sess, StateAssistantMenu, "")
	}
}

func (e *Engine) handleRecordDeliveryPassport(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	passport := strings.TrimSpace(ev.Text)
	if passport == "" {
		return e.stay(ctx, sess, StateRecordDeliveryPassport, "")
	}

	member, err := e.stores.Members.FindByPassport(ctx, passport)
	if errors.Is(err, sentinel.ErrNotFound) {
		return e.stay(ctx, sess, StateRecordDeliveryPassport, msgRegisterFirst)
	}
	if err != nil {
		return nil, StateRecordDeliveryPassport, fmt.Errorf("find member: %w", err)
	}

	prior, exists, err := e.admission.PriorDelivery(ctx, passport)
	if err != nil {
		return nil, StateRecordDeliveryPassport, err
	}

	sess.Scratch["pending_passport"] = passport
	if exists {
		// Repeat hand-off is allowed, but only after this explicit warning.
		sess.Scratch["delivery_notice"] = fmt.Sprintf(
			"⚠️ تحذير: العضو %s تم تسليمه من قبل!\nالمشرف: %s\nالتاريخ: %s\n\nهل تريد تأكيد التسليم؟",
			member.Name, prior.Supervisor, prior.DeliveredAt.Format("2006-01-02"))
	} else {
		sess.Scratch["delivery_notice"] = fmt.Sprintf(
			"✅ تم العثور على العضو: %s\nالجواز: %s\nالعنوان: %s\n\nهل تريد تأكيد التسليم؟",
			member.Name, member.Passport, member.Address)
	}
	return e.enter(ctx, sess, StateConfirmDelivery)
}

func (e *Engine) handleConfirmDelivery(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	passport := sess.Scratch["pending_passport"]
	delete(sess.Scratch, "pending_passport")
	delete(sess.Scratch, "delivery_notice")

	if strings.TrimSpace(ev.Text) != confirmDelivery {
		return e.enterWithNotice(ctx, sess, StateAssistantMenu, msgCancelled)
	}

	if _, err := e.admission.RecordDelivery(ctx, sess.Username, passport); err != nil {
		return nil, StateConfirmDelivery, err
	}
	return e.enterWithNotice(ctx, sess, StateAssistantMenu, "✅ تم تسجيل التسليم بنجاح.")
}

func (e *Engine) handleAssistantReportMenu(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	switch strings.TrimSpace(ev.Text) {
	case labelReportDownload:
		deliveries, err := e.stores.Deliveries.ListBySupervisor(ctx, sess.Username)
		if err != nil {
			return nil, StateAssistantReportMenu, fmt.Errorf("list deliveries: %w", err)
		}
		if len(deliveries) == 0 {
			return e.stay(ctx, sess, StateAssistantReportMenu, msgNothingFound)
		}
		data, err := importer.ExportDeliveries(deliveries)
		if err != nil {
			return nil, StateAssistantReportMenu, err
		}
		return e.stayWithFile(ctx, sess, StateAssistantReportMenu, "my_deliveries.xlsx", data)
	case labelReportSummary:
		byDate, err := e.stores.Deliveries.CountByDate(ctx, sess.Username)
		if err != nil {
			return nil, StateAssistantReportMenu, fmt.Errorf("count by date: %w", err)
		}
		if len(byDate) == 0 {
			return e.stay(ctx, sess, StateAssistantReportMenu, msgNothingFound)
		}
		total := 0
		var b strings.Builder
		fmt.Fprintf(&b, "📊 ملخص تسليمات %s:", sess.Username)
		for _, day := range sortedKeys(byDate) {
			fmt.Fprintf(&b, "\n%s: %d", day, byDate[day])
			total += byDate[day]
		}
		fmt.Fprintf(&b, "\nالإجمالي: %d", total)
		return e.stay(ctx, sess, StateAssistantReportMenu, b.String())
	default:
		return e.stay(ctx, sess, StateAssistantReportMenu, "")
	}
}
