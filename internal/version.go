package internal

// Version is the medtamil release version.
const Version = "0.1.0"
