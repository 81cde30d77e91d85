package engine

import (
	"context"
	"fmt"

	"sanad/internal/sessions"
)

// prompt renders the message(s) that re-enter a state, used both when a flow
// advances into the state and when "back" returns to it. Scratch fields are
// left untouched, which is what lets "back" preserve already-captured input.
func (e *Engine) prompt(ctx context.Context, state State, sess *sessions.Session) ([]Reply, error) {
	switch state {
	case StateIdle:
		return []Reply{{Text: msgMainKb, Menu: e.menuFor(sess)}}, nil
	case StateContactMenu:
		return []Reply{{Text: msgContactMenu, Menu: []string{
			labelContactPhone, labelContactEmail, labelContactWhatsapp, labelContactFacebook, labelBack,
		}}}, nil

	case StateAskName:
		return []Reply{{Text: msgAskName, Menu: cancelOrBack()}}, nil
	case StateAskPassport:
		return []Reply{{Text: msgAskPassport, Menu: cancelOrBack()}}, nil
	case StateAskPhone:
		return []Reply{{Text: msgAskPhone, Menu: cancelOrBack()}}, nil
	case StateAskAddress:
		return []Reply{{Text: msgAskAddress, Menu: cancelOrBack()}}, nil
	case StateAskRole:
		return []Reply{{Text: msgAskRole, Menu: cancelOrBack()}}, nil
	case StateAskFamilySize:
		return []Reply{{Text: msgAskFamily, Menu: cancelOrBack()}}, nil

	case StateServiceSelect:
		menu, err := e.serviceMenu(ctx)
		if err != nil {
			return nil, err
		}
		return []Reply{{Text: msgPickService, Menu: menu}}, nil
	case StateServicePassport:
		return []Reply{{Text: msgAskPassport, Menu: cancelOrBack()}}, nil

	case StateLoginUser:
		return []Reply{{Text: msgLoginUser, Menu: cancelOrBack()}}, nil
	case StateLoginPass:
		return []Reply{{Text: msgLoginPass, Menu: cancelOrBack()}}, nil

	case StateAdminMenu:
		return []Reply{{Text: msgAdminMenu, Menu: e.adminMenu()}}, nil
	case StateAccountMenu:
		return []Reply{{Text: msgAccountMenu, Menu: []string{labelAssistantsMgmt, labelMembersData, labelBack}}}, nil
	case StateAssistantsMenu:
		return []Reply{{Text: msgAssistantsMenu, Menu: []string{
			labelAddAssistant, labelDeleteAssistant, labelChangePass,
			labelAssistantRoster, labelAssistantExport, labelWipeSupervisor, labelBack,
		}}}, nil
	case StateCreateAssistantUser:
		return []Reply{{Text: msgNewAssistantUser, Menu: cancelOrBack()}}, nil
	case StateCreateAssistantPass:
		return []Reply{{Text: msgNewAssistantPass, Menu: cancelOrBack()}}, nil
	case StateDeleteAssistantPick, StateChangePassPick, StateWipeSupervisorPick:
		menu, err := e.assistantPickMenu(ctx)
		if err != nil {
			return nil, err
		}
		return []Reply{{Text: msgPickAssistant, Menu: menu}}, nil
	case StateChangePassNew:
		return []Reply{{Text: msgNewPassword, Menu: cancelOrBack()}}, nil

	case StateMembersMenu:
		return []Reply{{Text: msgMembersMenu, Menu: []string{
			labelDownloadData, labelWipeData, labelMemberSummary, labelImportData, labelBack,
		}}}, nil
	case StateConfirmWipeMembers:
		return []Reply{{
			Text: "⚠️ سيتم حذف كل بيانات المسجلين نهائياً. هل أنت متأكد؟",
			Menu: []string{confirmWipeMembers, labelCancel},
		}}, nil

	case StateDeliveriesMenu:
		return []Reply{{Text: msgDeliveriesMenu, Menu: []string{
			labelDownloadReports, labelWipeReports, labelShowSummary, labelImportReports, labelBack,
		}}}, nil
	case StateConfirmWipeDeliveries:
		return []Reply{{
			Text: "⚠️ سيتم حذف كل كشوفات التسليم نهائياً. هل أنت متأكد؟",
			Menu: []string{confirmWipeDeliv, labelCancel},
		}}, nil

	case StateStatsMenu:
		return []Reply{{Text: msgStatsMenu, Menu: []string{
			labelStatsShow, labelStatsExport, labelStatsWipe, labelBack,
		}}}, nil
	case StateConfirmWipeStats:
		return []Reply{{
			Text: "⚠️ سيتم حذف كل التسليمات والطلبات نهائياً. هل أنت متأكد؟",
			Menu: []string{confirmWipeStats, labelCancel},
		}}, nil

	case StateServicesMenu:
		return []Reply{{Text: msgServicesMenu, Menu: []string{
			labelAddService, labelListServices, labelDeleteService,
			labelServiceStats, labelServiceReports, labelImportRequests, labelBack,
		}}}, nil
	case StateAddService:
		return []Reply{{Text: msgNewService, Menu: cancelOrBack()}}, nil
	case StateDeleteServicePick, StateServiceReportPick, StateServiceWipePick:
		menu, err := e.serviceMenu(ctx)
		if err != nil {
			return nil, err
		}
		return []Reply{{Text: msgPickService, Menu: menu}}, nil
	case StateServiceReportMenu:
		return []Reply{{Text: "📄 اختر نوع الكشف:", Menu: []string{
			labelReportOne, labelReportAll, labelWipeMenu, labelBack,
		}}}, nil
	case StateServiceWipeMenu:
		return []Reply{{Text: "🗑️ اختر نوع الحذف:", Menu: []string{
			labelWipeOneService, labelWipeAllRequests, labelBack,
		}}}, nil
	case StateConfirmWipeServiceReport:
		return []Reply{{
			Text: fmt.Sprintf("⚠️ سيتم حذف كشف خدمة %s نهائياً. هل أنت متأكد؟", sess.Scratch["wipe_service"]),
			Menu: []string{confirmWipeService, labelCancel},
		}}, nil
	case StateConfirmWipeAllRequests:
		return []Reply{{
			Text: "⚠️ سيتم حذف كشوفات كل الخدمات نهائياً. هل أنت متأكد؟",
			Menu: []string{confirmWipeDeliv, labelCancel},
		}}, nil

	case StateAwaitMemberImport, StateAwaitDeliveryImport, StateAwaitRequestImport:
		return []Reply{{Text: msgSendFile, Menu: cancelOrBack()}}, nil
	case StateConfirmMemberImport, StateConfirmDeliveryImport, StateConfirmRequestImport:
		return []Reply{{
			Text: sess.Scratch["import_summary"] + "\n\nهل تريد تنفيذ الاستيراد؟",
			Menu: []string{confirmImportCommit, labelCancel},
		}}, nil

	case StateBroadcast:
		return []Reply{{Text: msgBroadcastAsk, Menu: cancelOrBack()}}, nil

	case StateAssistantMenu:
		return []Reply{{Text: msgAssistantMenu, Menu: e.assistantMenu()}}, nil
	case StateRecordDeliveryPassport:
		return []Reply{{Text: msgDeliveryPassport, Menu: cancelOrBack()}}, nil
	case StateConfirmDelivery:
		return []Reply{{
			Text: sess.Scratch["delivery_notice"],
			Menu: []string{confirmDelivery, declineDelivery},
		}}, nil
	case StateAssistantReportMenu:
		return []Reply{{Text: msgMyReportsMenu, Menu: []string{
			labelReportDownload, labelReportSummary, labelBack,
		}}}, nil
	}

	return []Reply{{Text: msgMainKb, Menu: e.menuFor(sess)}}, nil
}

// serviceMenu lists the current service names plus the back button.
func (e *Engine) serviceMenu(ctx context.Context) ([]string, error) {
	services, err := e.stores.Services.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	menu := make([]string, 0, len(services)+1)
	for _, svc := range services {
		menu = append(menu, svc.Name)
	}
	return append(menu, labelBack), nil
}

// assistantPickMenu lists assistant usernames plus the back button.
func (e *Engine) assistantPickMenu(ctx context.Context) ([]string, error) {
	assistants, err := e.stores.Assistants.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assistants: %w", err)
	}
	menu := make([]string, 0, len(assistants)+1)
	for _, a := range assistants {
		menu = append(menu, a.Username)
	}
	return append(menu, labelBack), nil
}
