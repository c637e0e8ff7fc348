package alerts

import (
	"fmt"
	"time"
)

// EnqueueJobApplied notifies the request owner that a professional applied.
func EnqueueJobApplied(requestID, proName, clientEmail string) error {
	env := EmailEnvelope{
		To:      clientEmail,
		Subject: "Nuova candidatura alla tua richiesta",
		Body:    fmt.Sprintf("%s si è candidato alla tua richiesta %s.", proName, requestID),
	}
	p := JobAppliedPayload{RequestID: requestID, ProfessionalName: proName, ClientEmail: clientEmail, Envelope: env, SentAt: time.Now()}
	return enqueue(TaskJobApplied, p, "notifications")
}

// EnqueueJobAccepted notifies the professional that the proposal was
// accepted and the price is now held in escrow.
func EnqueueJobAccepted(jobID, requestID, proName, clientName, proEmail string, price float64) error {
	env := EmailEnvelope{
		To:      proEmail,
		Subject: "Proposta accettata",
		Body:    fmt.Sprintf("%s ha accettato la tua proposta. Importo %.2f in garanzia.", clientName, price),
	}
	p := JobAcceptedPayload{JobID: jobID, RequestID: requestID, ProfessionalName: proName, ClientName: clientName, Price: price, Envelope: env, SentAt: time.Now()}
	return enqueue(TaskJobAccepted, p, "notifications")
}

// EnqueueJobSettled notifies the professional that escrow was released.
func EnqueueJobSettled(jobID, proName, proEmail string, commission, proEarning float64) error {
	env := EmailEnvelope{
		To:      proEmail,
		Subject: "Lavoro completato, fondi rilasciati",
		Body:    fmt.Sprintf("Il lavoro %s è stato completato. Accreditati %.2f (commissione %.2f).", jobID, proEarning, commission),
	}
	p := JobSettledPayload{JobID: jobID, ProfessionalName: proName, Commission: commission, ProEarning: proEarning, Envelope: env, SentAt: time.Now()}
	return enqueue(TaskJobSettled, p, "notifications")
}

// EnqueueReviewReceived notifies the professional of new feedback.
func EnqueueReviewReceived(reviewID, proName, proEmail, clientName string, rating int) error {
	env := EmailEnvelope{
		To:      proEmail,
		Subject: "Hai ricevuto una nuova recensione",
		Body:    fmt.Sprintf("%s ti ha lasciato una recensione da %d stelle.", clientName, rating),
	}
	p := ReviewReceivedPayload{ReviewID: reviewID, ProfessionalName: proName, ClientName: clientName, Rating: rating, Envelope: env, SentAt: time.Now()}
	return enqueue(TaskReviewReceived, p, "notifications")
}
