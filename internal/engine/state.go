package engine

// State identifies one step of a guided conversation. Sessions store the
// state as a string, so renaming a constant invalidates in-flight sessions.
type State string

const (
	// Top level.
	StateIdle        State = "idle"
	StateContactMenu State = "contact_menu"

	// Registration.
	StateAskName       State = "ask_name"
	StateAskPassport   State = "ask_passport"
	StateAskPhone      State = "ask_phone"
	StateAskAddress    State = "ask_address"
	StateAskRole       State = "ask_role"
	StateAskFamilySize State = "ask_family_size"

	// Service request.
	StateServiceSelect   State = "service_select"
	StateServicePassport State = "service_passport"

	// Login.
	StateLoginUser State = "login_user"
	StateLoginPass State = "login_pass"

	// Root administration.
	StateAdminMenu           State = "admin_menu"
	StateAccountMenu         State = "account_menu"
	StateAssistantsMenu      State = "assistants_menu"
	StateCreateAssistantUser State = "create_assistant_user"
	StateCreateAssistantPass State = "create_assistant_pass"
	StateDeleteAssistantPick State = "delete_assistant_pick"
	StateChangePassPick      State = "change_pass_pick"
	StateChangePassNew       State = "change_pass_new"
	StateWipeSupervisorPick  State = "wipe_supervisor_pick"

	StateMembersMenu         State = "members_menu"
	StateConfirmWipeMembers  State = "confirm_wipe_members"
	StateAwaitMemberImport   State = "await_member_import"
	StateConfirmMemberImport State = "confirm_member_import"

	StateDeliveriesMenu        State = "deliveries_menu"
	StateConfirmWipeDeliveries State = "confirm_wipe_deliveries"
	StateAwaitDeliveryImport   State = "await_delivery_import"
	StateConfirmDeliveryImport State = "confirm_delivery_import"

	StateStatsMenu        State = "stats_menu"
	StateConfirmWipeStats State = "confirm_wipe_stats"

	StateServicesMenu             State = "services_menu"
	StateAddService               State = "add_service"
	StateDeleteServicePick        State = "delete_service_pick"
	StateServiceReportMenu        State = "service_report_menu"
	StateServiceReportPick        State = "service_report_pick"
	StateServiceWipeMenu          State = "service_wipe_menu"
	StateServiceWipePick          State = "service_wipe_pick"
	StateConfirmWipeServiceReport State = "confirm_wipe_service_report"
	StateConfirmWipeAllRequests   State = "confirm_wipe_all_requests"
	StateAwaitRequestImport       State = "await_request_import"
	StateConfirmRequestImport     State = "confirm_request_import"

	StateBroadcast State = "broadcast"

	// Assistant work.
	StateAssistantMenu          State = "assistant_menu"
	StateRecordDeliveryPassport State = "record_delivery_passport"
	StateConfirmDelivery        State = "confirm_delivery"
	StateAssistantReportMenu    State = "assistant_report_menu"
)
