// messages.go contains message templates and formatting functions for Telegram.

package telegram

// Error and status messages.
const (
	msgInternalError        = "حدث خطأ ما. حاول مرة أخرى لاحقًا."
	msgNoActiveQuiz         = "لا يوجد اختبار نشط. ابدأ اختبارًا جديدًا بالأمر /quiz."
	msgNoPagesAvailable     = "لا توجد صفحات متاحة للاختبار حاليًا."
	msgNoAvailableQuestions = "عفواً، لا توجد أسئلة متاحة لهذه المعايير."
	msgGenerationFailed     = "حدث خطأ أثناء إعداد السؤال التالي."
	msgChallengeNotFound    = "لم يتم العثور على هذا التحدي أو انتهت صلاحيته."
	msgChallengeUsage       = "الاستخدام: /challenge <معرّف التحدي> أو /challenge new <رقم الصفحة>"
	msgChallengeSaved       = "تم تسجيل نتيجتك في التحدي بنجاح!"
	msgQuizStopped          = "تم إيقاف الاختبار."
	msgCorrectAnswer        = "✅ إجابة صحيحة!"
	msgWrongAnswer          = "❌ إجابة خاطئة."
	msgUnknownCommand       = "أمر غير معروف. استخدم /help لعرض الأوامر المتاحة."

	msgQariPrompt         = "اختر القارئ المفضل لديك:"
	msgQariSelectedPrefix = "تم اختيار القارئ: "

	// Args: page number, challenge ID.
	msgChallengeCreatedFormat = "⚔️ تم إنشاء تحدٍ على الصفحة %d!\nشارك هذا المعرّف مع أصدقائك:\n%s"
)

const msgHelp = `🕌 بوت اختبار الحفظ

/quiz — بدء اختبار على صفحة من المصحف
/challenge <id> — خوض تحدٍ شخصي
/challenge new <صفحة> — إنشاء تحدٍ ومشاركته
/profile — عرض ملفك وتقدمك
/qari — اختيار القارئ
/top — لوحة الصدارة
/help — هذه الرسالة`

const msgWelcome = `السلام عليكم! 🌙

هذا بوت لاختبار حفظ القرآن الكريم: أسئلة اختيار من متعدد على آيات الصفحة، مع نقاط خبرة ومستويات وإنجازات.

ابدأ بالأمر /quiz`
