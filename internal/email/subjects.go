package email

const (
	subjectNewLeadFmt         = "New quote lead: %s"
	subjectQuoteReadyFmt      = "Quote ready for %s"
	subjectPhotosSubmittedFmt = "%s submitted %d equipment photos"
)
