package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sanad/internal/importer"
	"sanad/internal/sessions"
	"sanad/internal/transport"
	domainerrors "sanad/pkg/domain-errors"
)

// Import is two-staged: the await state takes the uploaded file and runs the
// validator, the confirm state shows the bounded summary and only commits on
// the exact affirmative. The validated report rides along in scratch so the
// confirmation survives a process restart.

func (e *Engine) handleAwaitMemberImport(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	return e.receiveImport(ctx, sess, ev, importer.KindMembers, StateAwaitMemberImport, StateConfirmMemberImport)
}

func (e *Engine) handleAwaitDeliveryImport(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	return e.receiveImport(ctx, sess, ev, importer.KindDeliveries, StateAwaitDeliveryImport, StateConfirmDeliveryImport)
}

func (e *Engine) handleAwaitRequestImport(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	return e.receiveImport(ctx, sess, ev, importer.KindRequests, StateAwaitRequestImport, StateConfirmRequestImport)
}

func (e *Engine) receiveImport(
	ctx context.Context,
	sess *sessions.Session,
	ev transport.Event,
	kind importer.Kind,
	current, confirm State,
) ([]Reply, State, error) {
	if ev.File == nil {
		return e.stay(ctx, sess, current, msgSendFile)
	}

	report, err := importer.Validate(kind, ev.File.Name, ev.File.Data)
	if domainerrors.HasCode(err, domainerrors.CodeValidation) {
		return e.stay(ctx, sess, current, "⚠️ تعذر قراءة الملف: "+err.Error())
	}
	if err != nil {
		return nil, current, err
	}

	if e.metrics != nil {
		e.metrics.AddImportRows("accepted", len(report.Rows))
		e.metrics.AddImportRows("rejected", len(report.Errors))
	}

	if len(report.Rows) == 0 {
		return e.stay(ctx, sess, current, report.Summary()+"\n⚠️ لا توجد صفوف صالحة للاستيراد.")
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return nil, current, fmt.Errorf("encode import report: %w", err)
	}
	sess.Scratch["import"] = string(raw)
	sess.Scratch["import_summary"] = report.Summary()
	return e.enter(ctx, sess, confirm)
}

// handleConfirmImport serves all three confirm states; the session's current
// state picks the menu the flow returns to.
func (e *Engine) handleConfirmImport(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	current := State(sess.State)
	menu := importReturnState(current)

	raw := sess.Scratch["import"]
	delete(sess.Scratch, "import")
	delete(sess.Scratch, "import_summary")

	if strings.TrimSpace(ev.Text) != confirmImportCommit {
		return e.enterWithNotice(ctx, sess, menu, msgCancelled)
	}

	var report importer.Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return e.enterWithNotice(ctx, sess, menu, msgWentWrong)
	}

	result, err := e.committer.Commit(ctx, report)
	if err != nil {
		return nil, current, err
	}
	return e.enterWithNotice(ctx, sess, menu, "✅ اكتمل الاستيراد:\n"+result.Summary())
}

func importReturnState(confirm State) State {
	switch confirm {
	case StateConfirmMemberImport:
		return StateMembersMenu
	case StateConfirmDeliveryImport:
		return StateDeliveriesMenu
	default:
		return StateServicesMenu
	}
}
