package models

// Vote is a single user's reaction to an outfit, comment or reply.
type Vote string

const (
	VoteLike    Vote = "like"
	VoteDislike Vote = "dislike"
)

// Votes maps each voter to exactly one reaction, so a user can never both like
// and dislike the same target.
type Votes map[UserRef]Vote

// Toggle casts vote for user. Casting the same vote twice withdraws it;
// casting the opposite vote replaces it.
func (v *Votes) Toggle(user UserRef, vote Vote) {
	if *v == nil {
		*v = Votes{}
	}
	if (*v)[user] == vote {
		delete(*v, user)
		return
	}
	(*v)[user] = vote
}

// Of returns the user's current vote, or "" for none.
func (v Votes) Of(user UserRef) Vote { return v[user] }

// Counts returns the number of likes and dislikes.
func (v Votes) Counts() (likes, dislikes int) {
	for _, vote := range v {
		switch vote {
		case VoteLike:
			likes++
		case VoteDislike:
			dislikes++
		}
	}
	return likes, dislikes
}
