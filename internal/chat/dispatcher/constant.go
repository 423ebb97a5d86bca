package dispatcher

// ApologyText is the generic user-visible reply for completion failures.
// Raw error strings never reach the user.
const ApologyText = "😔 Sorry, I couldn't come up with a reply just now. Please try again in a moment."
