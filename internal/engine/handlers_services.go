package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sanad/internal/importer"
	"sanad/internal/sessions"
	"sanad/internal/transport"
	domainerrors "sanad/pkg/domain-errors"
	"sanad/pkg/platform/sentinel"
)

func (e *Engine) handleServicesMenu(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	switch strings.TrimSpace(ev.Text) {
	case labelAddService:
		return e.enter(ctx, sess, StateAddService)
	case labelListServices:
		services, err := e.stores.Services.List(ctx)
		if err != nil {
			return nil, StateServicesMenu, fmt.Errorf("list services: %w", err)
		}
		if len(services) == 0 {
			return e.stay(ctx, sess, StateServicesMenu, msgNoServices)
		}
		var b strings.Builder
		b.WriteString("📋 الخدمات المضافة:")
		for i, svc := range services {
			fmt.Fprintf(&b, "\n%d. %s", i+1, svc.Name)
		}
		return e.stay(ctx, sess, StateServicesMenu, b.String())
	case labelDeleteService:
		return e.enterServicePick(ctx, sess, StateDeleteServicePick)
	case labelServiceStats:
		byService, err := e.stores.Requests.CountByService(ctx)
		if err != nil {
			return nil, StateServicesMenu, fmt.Errorf("count by service: %w", err)
		}
		if len(byService) == 0 {
			return e.stay(ctx, sess, StateServicesMenu, "⚠️ لا توجد طلبات خدمات حتى الآن.")
		}
		total := 0
		var b strings.Builder
		b.WriteString("📊 إحصائيات الخدمات:")
		for _, name := range sortedKeys(byService) {
			fmt.Fprintf(&b, "\n%s: %d", name, byService[name])
			total += byService[name]
		}
		fmt.Fprintf(&b, "\nالإجمالي: %d", total)
		return e.stay(ctx, sess, StateServicesMenu, b.String())
	case labelServiceReports:
		return e.enter(ctx, sess, StateServiceReportMenu)
	case labelImportRequests:
		return e.enter(ctx, sess, StateAwaitRequestImport)
	default:
		return e.stay(ctx, sess, StateServicesMenu, "")
	}
}

// enterServicePick refuses to enter a picker when no services exist.
func (e *Engine) enterServicePick(ctx context.Context, sess *sessions.Session, next State) ([]Reply, State, error) {
	count, err := e.stores.Services.Count(ctx)
	if err != nil {
		return nil, State(sess.State), fmt.Errorf("count services: %w", err)
	}
	if count == 0 {
		return e.stay(ctx, sess, State(sess.State), msgNoServices)
	}
	return e.enter(ctx, sess, next)
}

func (e *Engine) handleAddService(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	name := strings.TrimSpace(ev.Text)
	if name == "" {
		return e.stay(ctx, sess, StateAddService, "")
	}
	created, err := e.admission.CreateService(ctx, name)
	switch {
	case domainerrors.HasCode(err, domainerrors.CodeConflict):
		return e.stay(ctx, sess, StateAddService, "⚠️ فشل إضافة الخدمة. قد تكون موجودة مسبقاً.")
	case err != nil:
		return nil, StateAddService, err
	}
	return e.enterWithNotice(ctx, sess, StateServicesMenu,
		fmt.Sprintf("✅ تم إضافة خدمة %s بنجاح.", created.Name))
}

func (e *Engine) handleDeleteServicePick(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	name := strings.TrimSpace(ev.Text)
	err := e.stores.Services.Delete(ctx, name)
	if errors.Is(err, sentinel.ErrNotFound) {
		return e.stay(ctx, sess, StateDeleteServicePick, msgServiceNotListed)
	}
	if err != nil {
		return nil, StateDeleteServicePick, fmt.Errorf("delete service: %w", err)
	}
	return e.enterWithNotice(ctx, sess, StateServicesMenu,
		fmt.Sprintf("✅ تم حذف خدمة %s بنجاح.", name))
}

func (e *Engine) handleServiceReportMenu(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	switch strings.TrimSpace(ev.Text) {
	case labelReportOne:
		return e.enterServicePick(ctx, sess, StateServiceReportPick)
	case labelReportAll:
		requests, err := e.stores.Requests.List(ctx)
		if err != nil {
			return nil, StateServiceReportMenu, fmt.Errorf("list requests: %w", err)
		}
		if len(requests) == 0 {
			return e.stay(ctx, sess, StateServiceReportMenu, "⚠️ لا توجد طلبات خدمات حتى الآن.")
		}
		data, err := importer.ExportRequests(requests)
		if err != nil {
			return nil, StateServiceReportMenu, err
		}
		return e.stayWithFile(ctx, sess, StateServiceReportMenu, "all_services.xlsx", data)
	case labelWipeMenu:
		return e.enter(ctx, sess, StateServiceWipeMenu)
	default:
		return e.stay(ctx, sess, StateServiceReportMenu, "")
	}
}

func (e *Engine) handleServiceReportPick(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	name := strings.TrimSpace(ev.Text)
	if _, err := e.stores.Services.Find(ctx, name); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return e.stay(ctx, sess, StateServiceReportPick, msgServiceNotListed)
		}
		return nil, StateServiceReportPick, fmt.Errorf("find service: %w", err)
	}

	requests, err := e.stores.Requests.ListByService(ctx, name)
	if err != nil {
		return nil, StateServiceReportPick, fmt.Errorf("list requests: %w", err)
	}
	if len(requests) == 0 {
		return e.enterWithNotice(ctx, sess, StateServiceReportMenu,
			fmt.Sprintf("⚠️ لا توجد طلبات لخدمة %s حتى الآن.", name))
	}
	data, err := importer.ExportRequests(requests)
	if err != nil {
		return nil, StateServiceReportPick, err
	}

	replies, next, err := e.enter(ctx, sess, StateServiceReportMenu)
	if err != nil {
		return nil, next, err
	}
	file := Reply{File: &transport.File{Name: name + ".xlsx", Data: data}}
	return append([]Reply{file}, replies...), next, nil
}

func (e *Engine) handleServiceWipeMenu(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	switch strings.TrimSpace(ev.Text) {
	case labelWipeOneService:
		return e.enterServicePick(ctx, sess, StateServiceWipePick)
	case labelWipeAllRequests:
		return e.enter(ctx, sess, StateConfirmWipeAllRequests)
	default:
		return e.stay(ctx, sess, StateServiceWipeMenu, "")
	}
}

func (e *Engine) handleServiceWipePick(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	name := strings.TrimSpace(ev.Text)
	if _, err := e.stores.Services.Find(ctx, name); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return e.stay(ctx, sess, StateServiceWipePick, msgServiceNotListed)
		}
		return nil, StateServiceWipePick, fmt.Errorf("find service: %w", err)
	}
	sess.Scratch["wipe_service"] = name
	return e.enter(ctx, sess, StateConfirmWipeServiceReport)
}

func (e *Engine) handleConfirmWipeServiceReport(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	name := sess.Scratch["wipe_service"]
	if strings.TrimSpace(ev.Text) != confirmWipeService {
		delete(sess.Scratch, "wipe_service")
		return e.enterWithNotice(ctx, sess, StateServiceWipeMenu, msgCancelled)
	}
	if err := e.stores.Requests.DeleteByService(ctx, name); err != nil {
		return nil, StateConfirmWipeServiceReport, fmt.Errorf("delete requests: %w", err)
	}
	delete(sess.Scratch, "wipe_service")
	return e.enterWithNotice(ctx, sess, StateServicesMenu,
		fmt.Sprintf("✅ تم حذف كشف خدمة %s بنجاح.", name))
}

func (e *Engine) handleConfirmWipeAllRequests(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	if strings.TrimSpace(ev.Text) != confirmWipeDeliv {
		return e.enterWithNotice(ctx, sess, StateServiceWipeMenu, msgCancelled)
	}
	if err := e.stores.Requests.DeleteAll(ctx); err != nil {
		return nil, StateConfirmWipeAllRequests, fmt.Errorf("delete requests: %w", err)
	}
	return e.enterWithNotice(ctx, sess, StateServicesMenu, "✅ تم حذف جميع كشوفات الخدمات بنجاح.")
}
