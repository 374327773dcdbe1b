package domain

const (
	ReplyWelcome = "👋 *Welcome!* I convert your PNG/JPG images into *WEBP* format. 🎉\n\n" +
		"👉 Just send me a *photo* or upload an *image file*.\n" +
		"I'll magically turn it into WEBP, perfect for stickers ✨"
	ReplyFallback        = "🤷 Send me a *photo* or *PNG/JPG* file and I'll convert it to WEBP! 🪄"
	ReplyUnsupportedType = "⚠️ Please send only PNG or JPG images."
	ReplyFileTooLarge    = "❌ File too large! Limit is %d MB."
	ReplyFileUnavailable = "⚠️ Couldn't get the file. Try again."
	ReplyProcessing      = "🔄 Converting your image... Please wait ✨"
	ReplyUnreadable      = "❌ I couldn't read that image. Try another PNG/JPG."
	ReplyImageTooLarge   = "❌ That image is too large to convert."
	ReplyDownloadFailed  = "❌ Couldn't download your file. Try again later."
	ReplyGenericFailure  = "❌ Oops, something went wrong! Try again later."
	ReplyDone            = "✅ Done! Your image is now *WEBP* 🎯"
)
