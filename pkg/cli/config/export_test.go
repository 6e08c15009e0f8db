package config

// LoadVocabularyForTest exposes vocabulary loading for testing purposes
var LoadVocabularyForTest = loadVocabulary
