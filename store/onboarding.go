package store

// Onboarding state lives under stable keys so a reinstalled build keeps
// greeting the user by name.
const (
	keyOnboardingComplete    = "coda-onboarding-complete"
	keyUserName              = "coda-user-name"
	keyCommunicationMethods  = "coda-communication-methods"
	keyChallenges            = "coda-challenges"
)

// Profile is what onboarding collects about the user.
type Profile struct {
	Name                 string
	CommunicationMethods []string
	Challenges           []string
}

// LoadProfile reads the saved profile. The second return reports whether
// onboarding has been completed at all.
func LoadProfile(kv *KV) (Profile, bool) {
	var p Profile
	done, ok := kv.Get(keyOnboardingComplete)
	if !ok || done != "true" {
		return p, false
	}
	p.Name, _ = kv.Get(keyUserName)
	kv.GetJSON(keyCommunicationMethods, &p.CommunicationMethods)
	kv.GetJSON(keyChallenges, &p.Challenges)
	return p, true
}

// SaveProfile persists the profile and marks onboarding complete.
func SaveProfile(kv *KV, p Profile) {
	kv.Set(keyUserName, p.Name)
	kv.SetJSON(keyCommunicationMethods, p.CommunicationMethods)
	kv.SetJSON(keyChallenges, p.Challenges)
	kv.Set(keyOnboardingComplete, "true")
}
