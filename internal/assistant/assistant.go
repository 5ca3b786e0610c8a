// Package assistant answers help questions with a fixed, ordered table of
// keyword rules. The first rule whose keywords match wins.
package assistant

import (
	"fmt"
	"strings"
)

// Context is what a reply template may mention about the asking user
type Context struct {
	FirstName    string
	Location     string
	HostedEvents int64
}

type rule struct {
	name  string
	match func(msg string) bool
	reply func(c Context) string
}

func anyOf(keywords ...string) func(string) bool {
	return func(msg string) bool {
		for _, k := range keywords {
			if strings.Contains(msg, k) {
				return true
			}
		}
		return false
	}
}

func allOf(keywords ...string) func(string) bool {
	return func(msg string) bool {
		for _, k := range keywords {
			if !strings.Contains(msg, k) {
				return false
			}
		}
		return true
	}
}

func either(preds ...func(string) bool) func(string) bool {
	return func(msg string) bool {
		for _, p := range preds {
			if p(msg) {
				return true
			}
		}
		return false
	}
}

func text(s string) func(Context) string {
	return func(Context) string { return s }
}

const fallbackReply = "I'm not sure about that. 🤖 Try asking about: **'Settings'**, **'How to Search'**, **'Language'**, **'Tickets'**, or **'Creating Events'**."

var rules = []rule{
	// greetings and small talk
	{"greeting", anyOf("hi", "hello", "hey", "greetings", "sup", "good morning", "good evening"), func(c Context) string {
		location := c.Location
		if location == "" {
			location = "Earth"
		}
		return fmt.Sprintf("Hello %s! 👋 PulseBot at your service. I see you are joining us from %s. How can I help?", c.FirstName, location)
	}},
	{"identity", anyOf("who are you", "what is this", "your name", "bot"), text("I am **PulseBot** 🤖, the AI assistant for EventPulse. I live in the server and eat binary code for breakfast!")},
	{"acknowledge", anyOf("ok", "okay", "kk", "alright", "fine", "cool", "nice", "done"), text("Awesome! Let me know if you need anything else. 🚀")},
	{"thanks", anyOf("thank", "thx", "appreciate", "good job"), func(c Context) string {
		return fmt.Sprintf("You're very welcome, %s! Happy to help. 🌟", c.FirstName)
	}},
	{"goodbye", anyOf("bye", "goodbye", "cya", "leave"), text("Goodbye! Hope to see you at an event soon! 👋")},
	{"apology", anyOf("sorry", "my bad", "oops", "mistake"), text("No need to apologize! We all make mistakes. I'm here to help you fix them. 😊")},
	{"decline", anyOf("nothing", "nope", "nah", "no"), text("Alright! I'll be here hanging out in the corner if you need me. ✨")},
	{"wellbeing", anyOf("how are you", "how r u"), text("I'm just a few lines of code, but I'm functioning perfectly! How are you doing? ⚡")},

	// discovery
	{"search", anyOf("search", "find event", "look for", "filter"), text("To search, use the **Search Bar** at the top of the dashboard. 🔍 You can also click the **Category Pills** (Music, Tech, etc.) to filter, or toggle between **List View** and **Map View**!")},
	{"map", anyOf("map", "location view", "where are events"), text("Click the **'Map View'** button 🗺️ on the dashboard. We use Leaflet Maps to show you pins of all upcoming events around the world.")},
	{"recommend", anyOf("recommend", "suggest", "for me"), text("Check the **'Recommended For You'** sidebar on the left! 🧠 It suggests events based on categories you've liked in the past.")},
	{"pagination", anyOf("load more", "pagination", "bottom", "scroll"), text("We load 5 events at a time to keep the app fast! ⚡ Scroll to the bottom and click **'Load More Events'** to see older ones.")},

	// account
	{"settings", anyOf("setting", "config", "privacy", "danger zone"), text("You can access **Settings** by clicking the **Gear Icon ⚙️** in the top navigation bar. There you can manage privacy, security, or delete your account.")},
	{"change_password", anyOf("change password", "update password"), text("To change your password while logged in, go to **Settings > Security**. Enter your current password and your new one. 🔐")},
	{"forgot_password", either(allOf("forgot", "password"), allOf("reset", "password"), anyOf("password")), text("If you are locked out, go to the Login screen and click **'Forgot Password?'**. We will email you a secure reset link.")},
	{"delete_account", anyOf("delete account", "remove account"), text("You can permanently delete your account in **Settings > Danger Zone**. Warning: This cannot be undone! ⚠️")},
	{"picture", anyOf("profile image", "profile pic", "avatar", "photo", "upload image", "change picture"), text("To change your picture: Go to your **Profile**, click the **Edit** button, and look for the upload box at the bottom of the form! 📸")},
	{"google", anyOf("google", "gmail", "sign in"), text("We support **Google Login**! If you linked your account, you can sign in with one tap on the login screen.")},

	{"language", anyOf("language", "translate", "english", "spanish", "urdu", "arabic", "french", "turkish"), text("EventPulse is global! 🌍 Click the **Flag Icons** in the top navbar to instantly switch languages.")},

	// hosting
	{"create", anyOf("create", "host", "make event", "publish"), func(c Context) string {
		return fmt.Sprintf("You have hosted **%d events** so far! To create another, click the floating **(+) Plus Button** in the bottom-right corner.", c.HostedEvents)
	}},
	{"edit_event", anyOf("edit event", "update event"), text("Currently, events cannot be edited to preserve ticket integrity. You can **Delete** it and create a new one if needed.")},
	{"delete_event", anyOf("delete event", "delte", "remove event"), text("If you are the creator (or Admin), look for the **Trash Icon 🗑️** on the event card to delete it.")},
	{"guests", anyOf("guest", "attendee", "list", "csv", "export"), text("Organizers can download their attendee list! 📋 Look for the **'CSV' button** on your event card to download a spreadsheet.")},

	// payments and tickets
	{"payment", anyOf("pay", "cost", "price", "stripe", "money", "buy"), text("We use **Stripe** for secure payments 💳. If an event is paid, the 'Join' button changes to 'Buy Ticket'. You'll be redirected to a secure checkout.")},
	{"ticket", anyOf("ticket", "qr", "pdf", "print", "download"), text("After joining, click **'View Ticket'**. On that page, you can see your QR Code or click **'Download PDF'** 📥 to save it.")},
	{"verify", anyOf("scan", "verify", "check in"), text("Organizers can verify tickets using the **Camera Icon 📷** in the navbar. It opens a QR Scanner to validate attendees instantly.")},
	{"refund", anyOf("refund", "money back"), text("Refunds are handled by the event organizer directly. Please use the event Group Chat to contact them.")},

	// social
	{"follow", anyOf("follow", "unfollow", "friend"), text("Visit a user's profile and click **'Follow'**. You can then toggle your Dashboard to the **'Following'** tab to see only their events! 👥")},
	{"followers", anyOf("follower", "following", "who follows me"), text("Go to your Profile Page. Click on the number above **'Followers'** or **'Following'** to see the full list of people! 👥")},
	{"chat", anyOf("chat", "message", "group"), text("Every event has a **Real-Time Group Chat**! 💬 Join an event, then click the 'Chat' button on the card to talk to other attendees.")},
	{"bookmark", anyOf("bookmark", "save", "later"), text("Click the **Bookmark Ribbon 🔖** on the top-right of any event card to save it privately to your Profile (Saved Tab).")},
	{"review", anyOf("rate", "review", "star"), text("You can rate an event (1-5 Stars) **only after** the event date has passed. A yellow review box will appear on the card! ⭐")},

	// app
	{"install", anyOf("app", "mobile", "install", "phone", "pwa"), text("Yes! EventPulse is a **Progressive Web App**. 📱 You can install it on your Android or iOS home screen and use it like a native app!")},
	{"stack", anyOf("tech", "stack", "code"), text("I run on a Go API backed by MongoDB and PostgreSQL, with WebSockets for the event chat. 💻")},
	{"theme", anyOf("dark mode", "light mode", "theme"), text("Toggle **Dark Mode** 🌙 using the Sun/Moon icon in the navbar. It looks great at night!")},

	// moderation
	{"admin", anyOf("admin", "ban", "broadcast"), text("Admins have a special **Command Center** 🛡️ to view analytics, ban users, and send global broadcasts.")},
	{"report", anyOf("report", "spam", "scam", "flag"), text("See something bad? Click the **Flag Icon 🚩** on the event card to report it. Our Admins review all reports.")},
	{"support", anyOf("contact", "issue", "bug", "help"), text("If you are facing a technical issue, please report it via the Flag icon, or contact the admin via the Broadcast system.")},
}

// Reply answers msg. Matching is case-insensitive substring search.
func Reply(msg string, c Context) string {
	reply, _ := match(msg, c)
	return reply
}

// match returns the reply and the name of the rule that produced it,
// "fallback" when none matched.
func match(msg string, c Context) (string, string) {
	lower := strings.ToLower(msg)
	for _, r := range rules {
		if r.match(lower) {
			return r.reply(c), r.name
		}
	}
	return fallbackReply, "fallback"
}
