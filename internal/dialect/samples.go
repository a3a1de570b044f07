package dialect

// defaultSamples maps Turkish region and city names to short dialect
// reference texts. The texts prime generation tone only; prompts instruct the
// model never to reuse their entities or events.
//
// Keys are matched by containment against the resolved display name, so both
// region names ("Karadeniz") and prominent cities ("Trabzon") appear.
var defaultSamples = map[string]string{
	"İstanbul": "Abi bak, şimdi buranın havası bir başkadır. Sabah vapura biner, " +
		"martılara simit atarsın; akşam olunca da çayını alır boğaza karşı oturursun. " +
		"Acele etme, burada her şeyin bir sırası var.",
	"Marmara": "Abi bak, şimdi buranın havası bir başkadır. Sabah vapura biner, " +
		"martılara simit atarsın; akşam olunca da çayını alır boğaza karşı oturursun. " +
		"Acele etme, burada her şeyin bir sırası var.",
	"Karadeniz": "Uy da uşağum, bizum buralar yeşilin bin türlüsüdür ha! Yaylaya " +
		"çıkacaksan sisi bekleme, sis seni bekler. Çayını demli iç, mısır ekmeğini " +
		"unutma, gerisi kendiliğinden gelur.",
	"Trabzon": "Uy da uşağum, bizum buralar yeşilin bin türlüsüdür ha! Yaylaya " +
		"çıkacaksan sisi bekleme, sis seni bekler. Çayını demli iç, mısır ekmeğini " +
		"unutma, gerisi kendiliğinden gelur.",
	"Karabük": "Uy da uşağum, bizum buralar yeşilin bin türlüsüdür ha! Konakların " +
		"arasında yürürken acele etme, taş sokaklar hikâyesini yavaş anlatur.",
	"Ege": "Canım benim, bizim buralarda işler ağırdan alınır. Sabah zeytinyağlı " +
		"bir kahvaltı, öğlen bir deniz, akşam da körfeze karşı bir şerbet. Gari " +
		"başka ne lazım ki insana?",
	"İzmir": "Canım benim, bizim buralarda işler ağırdan alınır. Sabah boyozunu " +
		"yersin, kordonda bir yürürsün, gari keyfine bak sen.",
	"İç Anadolu": "Hemşerim, bozkırın ortasında misafir ağırlamak bizim boynumuzun " +
		"borcudur. Gel otur şöyle, bir tas çorba iç; yol uzun, sohbet kısa olmasın.",
	"Ankara": "Hemşerim, bozkırın ortasında misafir ağırlamak bizim boynumuzun " +
		"borcudur. Gel otur şöyle, bir tas çorba iç; yol uzun, sohbet kısa olmasın.",
	"Akdeniz": "Gardaşım, bizim buranın güneşi insanı şımartır. Portakal bahçesinin " +
		"gölgesinde bir soluklan, denize de akşamüstü gir, en tatlısı o saattir.",
	"Antalya": "Gardaşım, bizim buranın güneşi insanı şımartır. Portakal bahçesinin " +
		"gölgesinde bir soluklan, denize de akşamüstü gir, en tatlısı o saattir.",
	"Doğu Anadolu": "Kurban olayım, bizim buraların kışı çetin ama sofrası sıcaktır. " +
		"Tandır başına geç, bal kaymak bir yanına, sohbet bir yanına; üşümek haram olur.",
	"Erzurum": "Kurban olayım, bizim buraların kışı çetin ama sofrası sıcaktır. " +
		"Cağ kebabını yemeden, kış sohbetine doymadan gitmek olmaz ha.",
	"Güneydoğu": "Heval, bu topraklarda taş bile hikâye anlatır. Bakır çarşısında " +
		"bir mırra iç, akşam damda yıldızların altında otur; misafir bizde baş tacıdır.",
	"Mardin": "Heval, bu topraklarda taş bile hikâye anlatır. Bakır çarşısında " +
		"bir mırra iç, akşam damda yıldızların altında otur; misafir bizde baş tacıdır.",
	"Gaziantep": "Heval, buranın mutfağı dillere destandır. Baklavayı sabah sıcak " +
		"yiyeceksin, katmeri de unutma; gerisini çarşıda ustalar anlatır sana.",
}
