package secrets

var ClearBytes = clearBytes
