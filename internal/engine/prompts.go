package engine

// Button labels and prompts, bilingual where operators expect the legacy
// Arabic wording. The sentinels are matched case-insensitively for the
// English fallbacks.

const (
	labelBack   = "🔙 رجوع"
	labelCancel = "❌ إلغاء"

	// Main menu.
	labelRegister = "📝 التسجيل"
	labelServices = "📌 الخدمات"
	labelAbout    = "ℹ️ عن المنصة"
	labelContact  = "📞 تواصل معنا"
	labelLogin    = "🔑 دخول"

	// Contact menu.
	labelContactPhone    = "📞 الهاتف"
	labelContactEmail    = "✉️ البريد الإلكتروني"
	labelContactWhatsapp = "📱 واتساب"
	labelContactFacebook = "📘 فيسبوك"

	// Admin menu.
	labelAccounts    = "👥 إدارة الحسابات"
	labelStats       = "📊 الإحصائيات"
	labelDeliveries  = "📋 كشوفات التسليم"
	labelServicesAdm = "👷 إدارة الخدمات"
	labelBroadcast   = "📢 إرسال رسالة للكل"
	labelLogout      = "🚪 تسجيل خروج"

	// Account management.
	labelAssistantsMgmt = "👮 إدارة المشرفين"
	labelMembersData    = "👥 بيانات المسجلين"

	// Assistants management.
	labelAddAssistant    = "➕ إضافة مشرف"
	labelDeleteAssistant = "🗑️ حذف مشرف"
	labelChangePass      = "🔑 تغيير كلمة المرور"
	labelAssistantRoster = "📋 كشف المشرفين"
	labelAssistantExport = "📥 تنزيل قائمة المشرفين"
	labelWipeSupervisor  = "🗑️ حذف كشوفات مشرف"

	// Members data.
	labelDownloadData  = "⬇️ تنزيل البيانات"
	labelWipeData      = "🗑️ مسح البيانات"
	labelMemberSummary = "📊 ملخص المسجلين"
	labelImportData    = "📤 استيراد البيانات"

	// Deliveries management.
	labelDownloadReports = "⬇️ تنزيل الكشوفات"
	labelWipeReports     = "🗑️ حذف الكشوفات"
	labelShowSummary     = "📊 عرض الملخص"
	labelImportReports   = "📤 استيراد الكشوفات"

	// Statistics.
	labelStatsShow   = "📋 عرض الملخص"
	labelStatsExport = "📥 تنزيل تقرير CSV"
	labelStatsWipe   = "🗑️ حذف الملخص"

	// Services management.
	labelAddService     = "➕ إضافة خدمة"
	labelListServices   = "📋 عرض الخدمات"
	labelDeleteService  = "🗑️ حذف خدمة"
	labelServiceStats   = "📊 إحصائيات الخدمات"
	labelServiceReports = "📄 كشف الخدمات"
	labelImportRequests = "📤 استيراد الطلبات"

	// Service reports.
	labelReportOne = "📄 كشف لخدمة واحدة"
	labelReportAll = "📄 كشف لكل الخدمات"
	labelWipeMenu  = "🗑️ حذف كشوف الخدمات"

	// Service report wipes.
	labelWipeOneService  = "🗑️ حذف كشف خدمة واحدة"
	labelWipeAllRequests = "🗑️ حذف كل الكشوفات"

	// Assistant menu.
	labelRecordDelivery = "📦 تسليم"
	labelMyReports      = "📋 كشوفاتي"

	// Assistant reports.
	labelReportDownload = "📥 تحميل"
	labelReportSummary  = "📊 ملخص"

	// Exact affirmatives for destructive confirmations. Anything else cancels.
	confirmDelivery     = "✅ نعم - تأكيد"
	declineDelivery     = "❌ لا - إلغاء"
	confirmWipeDeliv    = "✅ نعم، احذف الكشوفات"
	confirmWipeMembers  = "✅ نعم، احذف بيانات المسجلين"
	confirmWipeStats    = "✅ نعم، احذف الملخص"
	confirmWipeService  = "✅ نعم، احذف كشف الخدمة"
	confirmImportCommit = "✅ نعم - تأكيد"
)

const (
	msgWelcome = "👋 أهلاً بك في منصة سند.\nاختر من القائمة:"
	msgMainKb  = "⬅️ رجعت للقائمة الرئيسية."

	msgAbout = "ℹ️ منصة سند لإدارة شؤون الجالية: تسجيل الأعضاء، طلبات الخدمات، ومتابعة التسليمات."

	msgContactMenu  = "📞 اختر وسيلة التواصل:"
	msgContactPhone = "☎️ رقم الاتصال: 00201000098572\n(متاح للاتصال خلال ساعات النهار)"
	msgContactEmail = "📧 البريد: shareef@sudanaswan.com\nسوف نرد خلال 24 ساعة"

	msgAskName       = "✍️ أدخل اسمك الثلاثي:"
	msgAskPassport   = "🛂 أدخل رقم الجواز:"
	msgAskPhone      = "📞 أدخل رقم الهاتف:"
	msgAskAddress    = "🏠 أدخل عنوان السكن:"
	msgAskRole       = "👤 أدخل صفتك (مثال: رب أسرة، طالب، إلخ):"
	msgAskFamily     = "👨‍👩‍👧‍👦 أدخل عدد أفراد الأسرة (رقم فقط):"
	msgFamilyNotNum  = "⚠️ يجب إدخال رقم صحيح. أعد إدخال عدد أفراد الأسرة:"
	msgFamilyTooLow  = "⚠️ يجب أن يكون عدد أفراد الأسرة أكثر من صفر. أعد إدخال العدد:"
	msgRegistered    = "✅ تم تسجيل بياناتك بنجاح!"
	msgAlreadyMember = "⚠️ هذا الجواز مسجل مسبقاً."

	msgPickService      = "📌 اختر الخدمة المطلوبة:"
	msgNoServices       = "⚠️ لا توجد خدمات مضافة."
	msgServiceNotListed = "⚠️ الخدمة المختارة غير صحيحة."
	msgRegisterFirst    = "⚠️ هذا الجواز غير مسجل. يرجى التسجيل أولاً."
	msgDuplicateRequest = "⚠️ لديك طلب مسجل لهذه الخدمة مسبقاً."

	msgLoginUser   = "👤 أدخل اسم المستخدم:"
	msgLoginPass   = "🔐 أدخل كلمة المرور:"
	msgLoginRoot   = "✅ تم الدخول كمسؤول رئيسي."
	msgLoginAssist = "✅ تم الدخول كمشرف."
	msgLoginBad    = "❌ بيانات الدخول غير صحيحة."
	msgLoggedOut   = "🚪 تم تسجيل الخروج."
	msgNoPerms     = "⚠️ ليس لديك صلاحيات."

	msgAdminMenu      = "🛠️ القائمة الرئيسية للأدمن:"
	msgAccountMenu    = "👥 إدارة الحسابات:"
	msgAssistantsMenu = "👮 إدارة المشرفين:"
	msgMembersMenu    = "👥 إدارة بيانات المسجلين:"
	msgDeliveriesMenu = "📋 إدارة كشوفات التسليم:"
	msgStatsMenu      = "📊 اختر نوع الإحصائيات:"
	msgServicesMenu   = "👷 إدارة الخدمات:"
	msgAssistantMenu  = "📦 قائمة المشرف:"
	msgMyReportsMenu  = "📋 اختر نوع الكشف:"

	msgBroadcastAsk = "📢 أدخل الرسالة التي تريد إرسالها للجميع:"

	msgCancelled = "❌ تم الإلغاء."

	msgNewAssistantUser = "👤 أدخل اسم المستخدم للمشرف الجديد:"
	msgNewAssistantPass = "🔐 أدخل كلمة المرور للمشرف الجديد:"
	msgUserTaken        = "⚠️ اسم المستخدم موجود مسبقاً. اختر اسمًا آخر:"
	msgPickAssistant    = "👮 اختر المشرف:"
	msgNoAssistants     = "⚠️ لا يوجد مشرفون."
	msgNewPassword      = "🔐 أدخل كلمة المرور الجديدة:"

	msgNewService = "📝 أدخل اسم الخدمة الجديدة:"

	msgDeliveryPassport = "🛂 أدخل رقم جواز العضو:"

	msgSendFile     = "📎 أرسل ملف csv أو xlsx:"
	msgWentWrong    = "⚠️ حدث خطأ. حاول مرة أخرى."
	msgNotTracked   = "⚠️ لم أفهم. اختر من القائمة."
	msgNothingFound = "⚠️ لا توجد بيانات حتى الآن."
)
