package content

const placeholderDuaAudio = "https://cdn.islamic.network/quran/audio/128/ar.alafasy/1.mp3"

var reciters = []Reciter{
	{ID: "ar.alafasy", Name: "Mishary Rashid Alafasy"},
	{ID: "ar.abdulbasit", Name: "Abdul Basit"},
	{ID: "ar.husary", Name: "Mahmoud Khalil Al-Husary"},
	{ID: "ar.mahermuaiqly", Name: "Maher Al Muaiqly"},
	{ID: "ar.minshawi", Name: "Mohamed Siddiq El-Minshawi"},
}

var duas = []Dua{
	{
		ID:              "1",
		Category:        "Daily",
		Title:           "Waking Up",
		Arabic:          "الْحَمْدُ لِلَّهِ الَّذِي أَحْيَانَا بَعْدَ مَا أَمَاتَنَا وَإِلَيْهِ النُّشُورُ",
		Transliteration: "Alhamdu lillahil-ladhi ahyana ba'da ma amatana wa ilaihin-nushur",
		Translation:     "All praise is due to Allah who brought us to life after having caused us to die and unto Him is the resurrection.",
		Reference:       "Bukhari",
		AudioURL:        placeholderDuaAudio,
	},
	{
		ID:              "2",
		Category:        "Daily",
		Title:           "Before Sleeping",
		Arabic:          "بِاسْمِكَ اللَّهُمَّ أَمُوتُ وَأَحْيَا",
		Transliteration: "Bismika Allahumma amutu wa ahya",
		Translation:     "In Your Name, O Allah, I die and I live.",
		Reference:       "Muslim",
		AudioURL:        placeholderDuaAudio,
	},
	{
		ID:              "3",
		Category:        "Travel",
		Title:           "Starting a Journey",
		Arabic:          "سُبْحَانَ الَّذِي سَخَّرَ لَنَا هَذَا وَمَا كُنَّا لَهُ مُقْرِنِينَ وَإِنَّا إِلَى رَبِّنَا لَمُنْقَلِبُونَ",
		Transliteration: "Subhanal-ladhi sakh-khara lana hadha wa ma kunna lahu muqrinin. Wa inna ila Rabbina lamunqalibun",
		Translation:     "Glory unto Him Who created this for us though we were unable to create it ourselves. And unto our Lord we shall return.",
		Reference:       "Surah Az-Zukhruf 43:13-14",
		AudioURL:        placeholderDuaAudio,
	},
	{
		ID:              "4",
		Category:        "Prayer",
		Title:           "Entering the Mosque",
		Arabic:          "اللّهُمَّ افْتَحْ لِي أَبْوَابَ رَحْمَتِكَ",
		Transliteration: "Allahummaf-tah li abwaba rahmatik",
		Translation:     "O Allah, open the gates of Your mercy for me.",
		Reference:       "Muslim",
		AudioURL:        placeholderDuaAudio,
	},
	{
		ID:              "5",
		Category:        "Lifestyle",
		Title:           "Before Eating",
		Arabic:          "بِسْمِ اللَّهِ",
		Transliteration: "Bismillah",
		Translation:     "In the name of Allah.",
		Reference:       "Bukhari",
		AudioURL:        placeholderDuaAudio,
	},
}

var fiqhArticles = []FiqhArticle{
	{
		ID:       "1",
		Category: "Purification",
		Title:    "How to Perform Wudu (Ablution)",
		Summary:  "A step-by-step guide to ritual purification before prayer.",
		Content: "1. Intention (Niyyah). 2. Say Bismillah. 3. Wash hands three times. 4. Rinse mouth and nose. " +
			"5. Wash face. 6. Wash arms up to elbows. 7. Wipe head and ears. 8. Wash feet up to ankles.",
	},
	{
		ID:       "2",
		Category: "Prayer",
		Title:    "Conditions of Salah",
		Summary:  "Prerequisites that must be met for the prayer to be valid.",
		Content: "The conditions are: 1. Purification (Wudu). 2. Covering the Awrah. 3. Facing the Qibla. " +
			"4. Entry of Prayer Time. 5. Intention.",
	},
	{
		ID:       "3",
		Category: "Fasting",
		Title:    "Things that Invalidate the Fast",
		Summary:  "Actions that break the fast during Ramadan.",
		Content: "Intentional eating or drinking, sexual intercourse, intentional vomiting. " +
			"Forgetfully eating or drinking does not break the fast.",
	},
	{
		ID:       "4",
		Category: "Charity",
		Title:    "Zakat Eligibility",
		Summary:  "Who is eligible to receive Zakat?",
		Content: "Zakat can be given to: The poor, the needy, Zakat collectors, new Muslims, to free captives, " +
			"debtors, in the cause of Allah, and the traveler.",
	},
}

var collections = []Collection{
	{
		ID:           "bukhari",
		Name:         "Sahih al-Bukhari",
		ArabicName:   "صحيح البخاري",
		Description:  "One of the most authentic collections of the Sunnah.",
		TotalHadiths: 7563,
	},
	{
		ID:           "muslim",
		Name:         "Sahih Muslim",
		ArabicName:   "صحيح مسلم",
		Description:  "Considered the second most authentic book after the Quran.",
		TotalHadiths: 7500,
	},
	{
		ID:           "nawawi",
		Name:         "40 Hadith Nawawi",
		ArabicName:   "الأربعون النووية",
		Description:  "A compilation of forty hadiths by Imam al-Nawawi.",
		TotalHadiths: 42,
	},
	{
		ID:           "tirmidhi",
		Name:         "Jami` at-Tirmidhi",
		ArabicName:   "جامع الترمذي",
		Description:  "Contains Hadiths on legal rulings and etiquette.",
		TotalHadiths: 3956,
	},
	{
		ID:           "abudawud",
		Name:         "Sunan Abi Dawud",
		ArabicName:   "سنن أبي داود",
		Description:  "Focuses on legal rulings (Ahkam).",
		TotalHadiths: 5274,
	},
}
