package config

// EnvFromListForTest exposes envFromList.
var EnvFromListForTest = envFromList
