package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"sanad/internal/domain"
	"sanad/internal/importer"
	"sanad/internal/sessions"
	"sanad/internal/transport"
	domainerrors "sanad/pkg/domain-errors"
	"sanad/pkg/platform/sentinel"
)

func (e *Engine) handleAdminMenu(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	switch strings.TrimSpace(ev.Text) {
	case labelAccounts:
		return e.enter(ctx, sess, StateAccountMenu)
	case labelStats:
		return e.enter(ctx, sess, StateStatsMenu)
	case labelDeliveries:
		return e.enter(ctx, sess, StateDeliveriesMenu)
	case labelServicesAdm:
		return e.enter(ctx, sess, StateServicesMenu)
	case labelBroadcast:
		return e.enter(ctx, sess, StateBroadcast)
	case labelLogout:
		sess.Logout(string(StateIdle))
		return []Reply{{Text: msgLoggedOut, Menu: e.mainMenu()}}, StateIdle, nil
	default:
		return e.stay(ctx, sess, StateAdminMenu, "")
	}
}

func (e *Engine) handleAccountMenu(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	switch strings.TrimSpace(ev.Text) {
	case labelAssistantsMgmt:
		return e.enter(ctx, sess, StateAssistantsMenu)
	case labelMembersData:
		return e.enter(ctx, sess, StateMembersMenu)
	default:
		return e.stay(ctx, sess, StateAccountMenu, "")
	}
}

// Assistants management.

func (e *Engine) handleAssistantsMenu(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	switch strings.TrimSpace(ev.Text) {
	case labelAddAssistant:
		return e.enter(ctx, sess, StateCreateAssistantUser)
	case labelDeleteAssistant:
		return e.enterAssistantPick(ctx, sess, StateDeleteAssistantPick)
	case labelChangePass:
		return e.enterAssistantPick(ctx, sess, StateChangePassPick)
	case labelWipeSupervisor:
		return e.enterAssistantPick(ctx, sess, StateWipeSupervisorPick)
	case labelAssistantRoster:
		assistants, err := e.stores.Assistants.List(ctx)
		if err != nil {
			return nil, StateAssistantsMenu, fmt.Errorf("list assistants: %w", err)
		}
		if len(assistants) == 0 {
			return e.stay(ctx, sess, StateAssistantsMenu, msgNoAssistants)
		}
		var b strings.Builder
		b.WriteString("📋 كشف المشرفين:")
		for i, a := range assistants {
			fmt.Fprintf(&b, "\n%d. %s", i+1, a.Username)
		}
		return e.stay(ctx, sess, StateAssistantsMenu, b.String())
	case labelAssistantExport:
		assistants, err := e.stores.Assistants.List(ctx)
		if err != nil {
			return nil, StateAssistantsMenu, fmt.Errorf("list assistants: %w", err)
		}
		if len(assistants) == 0 {
			return e.stay(ctx, sess, StateAssistantsMenu, msgNoAssistants)
		}
		data, err := importer.ExportAssistants(assistants)
		if err != nil {
			return nil, StateAssistantsMenu, err
		}
		return e.stayWithFile(ctx, sess, StateAssistantsMenu, "assistants.xlsx", data)
	default:
		return e.stay(ctx, sess, StateAssistantsMenu, "")
	}
}

// enterAssistantPick refuses to enter a picker when there is nothing to pick.
func (e *Engine) enterAssistantPick(ctx context.Context, sess *sessions.Session, next State) ([]Reply, State, error) {
	count, err := e.stores.Assistants.Count(ctx)
	if err != nil {
		return nil, State(sess.State), fmt.Errorf("count assistants: %w", err)
	}
	if count == 0 {
		return e.stay(ctx, sess, State(sess.State), msgNoAssistants)
	}
	return e.enter(ctx, sess, next)
}

func (e *Engine) handleCreateAssistantUser(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	username := strings.TrimSpace(ev.Text)
	if username == "" {
		return e.stay(ctx, sess, StateCreateAssistantUser, "")
	}
	if _, err := e.stores.Assistants.FindByUsername(ctx, username); err == nil {
		return e.stay(ctx, sess, StateCreateAssistantUser, msgUserTaken)
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, StateCreateAssistantUser, fmt.Errorf("find assistant: %w", err)
	}
	sess.Scratch["new_user"] = username
	return e.enter(ctx, sess, StateCreateAssistantPass)
}

func (e *Engine) handleCreateAssistantPass(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	username := sess.Scratch["new_user"]
	created, err := e.admission.CreateAssistant(ctx, domain.Assistant{
		Username: username,
		Password: strings.TrimSpace(ev.Text),
	})
	switch {
	case domainerrors.HasCode(err, domainerrors.CodeValidation):
		return e.stay(ctx, sess, StateCreateAssistantPass, "")
	case domainerrors.HasCode(err, domainerrors.CodeConflict):
		return e.enterWithNotice(ctx, sess, StateCreateAssistantUser, msgUserTaken)
	case err != nil:
		return nil, StateCreateAssistantPass, err
	}
	delete(sess.Scratch, "new_user")
	return e.enterWithNotice(ctx, sess, StateAssistantsMenu,
		fmt.Sprintf("✅ تم إضافة المشرف %s بنجاح.", created.Username))
}

func (e *Engine) handleDeleteAssistantPick(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	username := strings.TrimSpace(ev.Text)
	err := e.stores.Assistants.Delete(ctx, username)
	if errors.Is(err, sentinel.ErrNotFound) {
		return e.stay(ctx, sess, StateDeleteAssistantPick, msgNotTracked)
	}
	if err != nil {
		return nil, StateDeleteAssistantPick, fmt.Errorf("delete assistant: %w", err)
	}
	return e.enterWithNotice(ctx, sess, StateAssistantsMenu,
		fmt.Sprintf("✅ تم حذف المشرف %s بنجاح.", username))
}

func (e *Engine) handleChangePassPick(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	username := strings.TrimSpace(ev.Text)
	if _, err := e.stores.Assistants.FindByUsername(ctx, username); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return e.stay(ctx, sess, StateChangePassPick, msgNotTracked)
		}
		return nil, StateChangePassPick, fmt.Errorf("find assistant: %w", err)
	}
	sess.Scratch["pass_user"] = username
	return e.enter(ctx, sess, StateChangePassNew)
}

func (e *Engine) handleChangePassNew(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	password := strings.TrimSpace(ev.Text)
	if password == "" {
		return e.stay(ctx, sess, StateChangePassNew, "")
	}
	username := sess.Scratch["pass_user"]
	err := e.stores.Assistants.UpdatePassword(ctx, username, password)
	if errors.Is(err, sentinel.ErrNotFound) {
		return e.enterWithNotice(ctx, sess, StateAssistantsMenu, msgNoAssistants)
	}
	if err != nil {
		return nil, StateChangePassNew, fmt.Errorf("update password: %w", err)
	}
	delete(sess.Scratch, "pass_user")
	return e.enterWithNotice(ctx, sess, StateAssistantsMenu,
		fmt.Sprintf("✅ تم تغيير كلمة المرور للمشرف %s بنجاح.", username))
}

func (e *Engine) handleWipeSupervisorPick(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	username := strings.TrimSpace(ev.Text)
	if _, err := e.stores.Assistants.FindByUsername(ctx, username); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return e.stay(ctx, sess, StateWipeSupervisorPick, msgNotTracked)
		}
		return nil, StateWipeSupervisorPick, fmt.Errorf("find assistant: %w", err)
	}
	if err := e.stores.Deliveries.DeleteBySupervisor(ctx, username); err != nil {
		return nil, StateWipeSupervisorPick, fmt.Errorf("delete deliveries: %w", err)
	}
	return e.enterWithNotice(ctx, sess, StateAssistantsMenu,
		fmt.Sprintf("✅ تم حذف كشوفات المشرف %s.", username))
}

// Members data.

func (e *Engine) handleMembersMenu(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	switch strings.TrimSpace(ev.Text) {
	case labelDownloadData:
		members, err := e.stores.Members.List(ctx)
		if err != nil {
			return nil, StateMembersMenu, fmt.Errorf("list members: %w", err)
		}
		if len(members) == 0 {
			return e.stay(ctx, sess, StateMembersMenu, msgNothingFound)
		}
		data, err := importer.ExportMembers(members)
		if err != nil {
			return nil, StateMembersMenu, err
		}
		return e.stayWithFile(ctx, sess, StateMembersMenu, "members.xlsx", data)
	case labelWipeData:
		return e.enter(ctx, sess, StateConfirmWipeMembers)
	case labelMemberSummary:
		summary, err := e.memberSummary(ctx)
		if err != nil {
			return nil, StateMembersMenu, err
		}
		return e.stay(ctx, sess, StateMembersMenu, summary)
	case labelImportData:
		return e.enter(ctx, sess, StateAwaitMemberImport)
	default:
		return e.stay(ctx, sess, StateMembersMenu, "")
	}
}

func (e *Engine) memberSummary(ctx context.Context) (string, error) {
	count, err := e.stores.Members.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("count members: %w", err)
	}
	family, err := e.stores.Members.FamilyTotal(ctx)
	if err != nil {
		return "", fmt.Errorf("family total: %w", err)
	}
	byRole, err := e.stores.Members.CountByRoleLabel(ctx)
	if err != nil {
		return "", fmt.Errorf("count by role: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 ملخص المسجلين:\n👥 إجمالي الأعضاء: %d\n👨‍👩‍👧‍👦 إجمالي أفراد الأسر: %d", count, family)
	for _, role := range sortedKeys(byRole) {
		fmt.Fprintf(&b, "\n%s: %d", role, byRole[role])
	}
	return b.String(), nil
}

func (e *Engine) handleConfirmWipeMembers(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	if strings.TrimSpace(ev.Text) != confirmWipeMembers {
		return e.enterWithNotice(ctx, sess, StateMembersMenu, msgCancelled)
	}
	if err := e.stores.Members.DeleteAll(ctx); err != nil {
		return nil, StateConfirmWipeMembers, fmt.Errorf("delete members: %w", err)
	}
	return e.enterWithNotice(ctx, sess, StateMembersMenu, "✅ تم حذف بيانات المسجلين.")
}

// Delivery reports.

func (e *Engine) handleDeliveriesMenu(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	switch strings.TrimSpace(ev.Text) {
	case labelDownloadReports:
		deliveries, err := e.stores.Deliveries.List(ctx)
		if err != nil {
			return nil, StateDeliveriesMenu, fmt.Errorf("list deliveries: %w", err)
		}
		if len(deliveries) == 0 {
			return e.stay(ctx, sess, StateDeliveriesMenu, msgNothingFound)
		}
		data, err := importer.ExportDeliveries(deliveries)
		if err != nil {
			return nil, StateDeliveriesMenu, err
		}
		return e.stayWithFile(ctx, sess, StateDeliveriesMenu, "deliveries.xlsx", data)
	case labelWipeReports:
		return e.enter(ctx, sess, StateConfirmWipeDeliveries)
	case labelShowSummary:
		bySupervisor, err := e.stores.Deliveries.CountBySupervisor(ctx)
		if err != nil {
			return nil, StateDeliveriesMenu, fmt.Errorf("count deliveries: %w", err)
		}
		if len(bySupervisor) == 0 {
			return e.stay(ctx, sess, StateDeliveriesMenu, msgNothingFound)
		}
		var b strings.Builder
		b.WriteString("📊 ملخص التسليمات حسب المشرف:")
		for _, sup := range sortedKeys(bySupervisor) {
			fmt.Fprintf(&b, "\n%s: %d", sup, bySupervisor[sup])
		}
		return e.stay(ctx, sess, StateDeliveriesMenu, b.String())
	case labelImportReports:
		return e.enter(ctx, sess, StateAwaitDeliveryImport)
	default:
		return e.stay(ctx, sess, StateDeliveriesMenu, "")
	}
}

func (e *Engine) handleConfirmWipeDeliveries(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	if strings.TrimSpace(ev.Text) != confirmWipeDeliv {
		return e.enterWithNotice(ctx, sess, StateDeliveriesMenu, msgCancelled)
	}
	if err := e.stores.Deliveries.DeleteAll(ctx); err != nil {
		return nil, StateConfirmWipeDeliveries, fmt.Errorf("delete deliveries: %w", err)
	}
	return e.enterWithNotice(ctx, sess, StateDeliveriesMenu, "✅ تم حذف جميع كشوفات التسليم.")
}

// Statistics.

func (e *Engine) handleStatsMenu(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	switch strings.TrimSpace(ev.Text) {
	case labelStatsShow:
		stats, err := e.collectStatistics(ctx)
		if err != nil {
			return nil, StateStatsMenu, err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "📊 الإحصائيات:\n👥 الأعضاء: %d\n👨‍👩‍👧‍👦 أفراد الأسر: %d\n📦 التسليمات: %d\n📌 الطلبات: %d\n👮 المشرفون: %d\n💬 المستخدمون: %d",
			stats.Members, stats.FamilyTotal, stats.Deliveries, stats.Requests, stats.Assistants, stats.Subscribers)
		return e.stay(ctx, sess, StateStatsMenu, b.String())
	case labelStatsExport:
		stats, err := e.collectStatistics(ctx)
		if err != nil {
			return nil, StateStatsMenu, err
		}
		data, err := importer.ExportStatistics(stats)
		if err != nil {
			return nil, StateStatsMenu, err
		}
		return e.stayWithFile(ctx, sess, StateStatsMenu, "statistics.xlsx", data)
	case labelStatsWipe:
		return e.enter(ctx, sess, StateConfirmWipeStats)
	default:
		return e.stay(ctx, sess, StateStatsMenu, "")
	}
}

func (e *Engine) collectStatistics(ctx context.Context) (importer.Statistics, error) {
	var stats importer.Statistics
	var err error
	if stats.Members, err = e.stores.Members.Count(ctx); err != nil {
		return stats, fmt.Errorf("count members: %w", err)
	}
	if stats.FamilyTotal, err = e.stores.Members.FamilyTotal(ctx); err != nil {
		return stats, fmt.Errorf("family total: %w", err)
	}
	if stats.Deliveries, err = e.stores.Deliveries.Count(ctx); err != nil {
		return stats, fmt.Errorf("count deliveries: %w", err)
	}
	if stats.Requests, err = e.stores.Requests.Count(ctx); err != nil {
		return stats, fmt.Errorf("count requests: %w", err)
	}
	if stats.Assistants, err = e.stores.Assistants.Count(ctx); err != nil {
		return stats, fmt.Errorf("count assistants: %w", err)
	}
	if stats.Subscribers, err = e.stores.Subscribers.Count(ctx); err != nil {
		return stats, fmt.Errorf("count subscribers: %w", err)
	}
	if stats.ByService, err = e.stores.Requests.CountByService(ctx); err != nil {
		return stats, fmt.Errorf("count by service: %w", err)
	}
	return stats, nil
}

func (e *Engine) handleConfirmWipeStats(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	if strings.TrimSpace(ev.Text) != confirmWipeStats {
		return e.enterWithNotice(ctx, sess, StateStatsMenu, msgCancelled)
	}
	if err := e.stores.Deliveries.DeleteAll(ctx); err != nil {
		return nil, StateConfirmWipeStats, fmt.Errorf("delete deliveries: %w", err)
	}
	if err := e.stores.Requests.DeleteAll(ctx); err != nil {
		return nil, StateConfirmWipeStats, fmt.Errorf("delete requests: %w", err)
	}
	return e.enterWithNotice(ctx, sess, StateStatsMenu, "✅ تم حذف جميع الإحصائيات.")
}

// Broadcast.

func (e *Engine) handleBroadcast(ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error) {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return e.stay(ctx, sess, StateBroadcast, "")
	}
	sent, failed, err := e.dispatcher.Broadcast(ctx, text)
	if err != nil {
		return nil, StateBroadcast, err
	}
	notice := fmt.Sprintf("✅ تم إرسال الرسالة:\n✅ نجح: %d\n❌ فشل: %d", sent, failed)
	return e.enterWithNotice(ctx, sess, StateAdminMenu, notice)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
