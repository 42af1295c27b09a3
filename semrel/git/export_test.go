package git

// ParseRemotesForTest exposes parseRemotes.
var ParseRemotesForTest = parseRemotes
